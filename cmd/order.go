package cmd

import (
	"math/big"
	"strconv"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/soulgarden/aori-client/amount"
	"github.com/soulgarden/aori-client/request"
	"github.com/spf13/cobra"
)

const defaultOrderTTL = 24 * time.Hour

type orderFlags struct {
	order          request.Order
	inputDecimals  int32
	outputDecimals int32
	counter        int64
	toWithdraw     bool
	signature      string
	isPublic       bool
}

func newMakeOrderCmd(flags *globalFlags) *cobra.Command {
	of := &orderFlags{}

	cmd := &cobra.Command{
		Use:   "make-order",
		Short: "Place a signed order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := of.build(cmd, time.Now())
			if err != nil {
				return err
			}

			resp, err := flags.rpc().MakeOrder(cmd.Context(), order)

			return printResponse(cmd, resp, err)
		},
	}

	of.bind(cmd)

	return cmd
}

func (of *orderFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&of.order.Offerer, "offerer", "", "offerer address")
	f.StringVar(&of.order.InputToken, "input-token", "", "input token address")
	f.StringVar(&of.order.InputAmount, "input-amount", "", "input amount, base units unless --input-decimals is set")
	f.Int64Var(&of.order.InputChainID, "input-chain-id", 1, "input chain id")
	f.StringVar(&of.order.InputZone, "input-zone", "", "input zone address")
	f.StringVar(&of.order.OutputToken, "output-token", "", "output token address")
	f.StringVar(&of.order.OutputAmount, "output-amount", "", "output amount, base units unless --output-decimals is set")
	f.Int64Var(&of.order.OutputChainID, "output-chain-id", 1, "output chain id")
	f.StringVar(&of.order.OutputZone, "output-zone", "", "output zone address")
	f.StringVar(&of.order.StartTime, "start-time", "", "unix seconds, now when empty")
	f.StringVar(&of.order.EndTime, "end-time", "", "unix seconds, start time plus 24h when empty")
	f.StringVar(&of.order.Salt, "salt", "", "order salt, random when empty")
	f.Int32Var(&of.inputDecimals, "input-decimals", 0, "input token decimals")
	f.Int32Var(&of.outputDecimals, "output-decimals", 0, "output token decimals")
	f.Int64Var(&of.counter, "counter", 0, "offerer counter")
	f.BoolVar(&of.toWithdraw, "to-withdraw", false, "withdraw after settlement")
	f.StringVar(&of.signature, "signature", "", "order signature")
	f.BoolVar(&of.isPublic, "public", false, "list the order publicly")
}

// build fills the defaults and leaves optional fields nil unless their flag was given.
func (of *orderFlags) build(cmd *cobra.Command, now time.Time) (*request.Order, error) {
	order := of.order
	changed := cmd.Flags().Changed

	if changed("input-decimals") {
		v, err := amount.ToBaseUnits(order.InputAmount, of.inputDecimals)
		if err != nil {
			return nil, err
		}

		order.InputAmount = v
	}

	if changed("output-decimals") {
		v, err := amount.ToBaseUnits(order.OutputAmount, of.outputDecimals)
		if err != nil {
			return nil, err
		}

		order.OutputAmount = v
	}

	if order.StartTime == "" {
		order.StartTime = strconv.FormatInt(now.Unix(), 10)
	}

	if order.EndTime == "" {
		order.EndTime = strconv.FormatInt(now.Add(defaultOrderTTL).Unix(), 10)
	}

	if order.Salt == "" {
		order.Salt = new(big.Int).SetBytes(uuid.NewV4().Bytes()).String()
	}

	if changed("counter") {
		counter := of.counter
		order.Counter = &counter
	}

	if changed("to-withdraw") {
		toWithdraw := of.toWithdraw
		order.ToWithdraw = &toWithdraw
	}

	if changed("signature") {
		signature := of.signature
		order.Signature = &signature
	}

	if changed("public") {
		isPublic := of.isPublic
		order.IsPublic = &isPublic
	}

	return &order, nil
}
