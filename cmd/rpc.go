package cmd

import (
	"github.com/soulgarden/aori-client/request"
	"github.com/spf13/cobra"
)

func newPingCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the api is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := flags.rpc().Ping(cmd.Context())

			return printResponse(cmd, resp, err)
		},
	}
}

func newOrdersCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List orders of the api key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := flags.rpc().AccountOrders(cmd.Context())

			return printResponse(cmd, resp, err)
		},
	}
}

func newOrderbookCmd(flags *globalFlags) *cobra.Command {
	var (
		chainID int64
		base    string
		quote   string
		side    string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "orderbook",
		Short: "View the orderbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []request.FilterOption{request.WithLimit(limit)}

			if cmd.Flags().Changed("chain-id") {
				opts = append(opts, request.WithChainID(chainID))
			}

			if cmd.Flags().Changed("base") {
				opts = append(opts, request.WithBase(base))
			}

			if cmd.Flags().Changed("quote") {
				opts = append(opts, request.WithQuote(quote))
			}

			if cmd.Flags().Changed("side") {
				opts = append(opts, request.WithSide(side))
			}

			resp, err := flags.rpc().ViewOrderbook(cmd.Context(), request.NewOrderbookFilter(opts...))

			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().Int64Var(&chainID, "chain-id", 0, "chain id")
	cmd.Flags().StringVar(&base, "base", "", "base token address")
	cmd.Flags().StringVar(&quote, "quote", "", "quote token address")
	cmd.Flags().StringVar(&side, "side", "", "BUY or SELL")
	cmd.Flags().IntVar(&limit, "limit", 100, "max entries")

	return cmd
}

func newTakeOrderCmd(flags *globalFlags) *cobra.Command {
	var orderID, taker, amount, signature string

	cmd := &cobra.Command{
		Use:   "take-order",
		Short: "Take an existing order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := flags.rpc().TakeOrder(cmd.Context(), orderID, taker, amount, signature)

			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().StringVar(&orderID, "order-id", "", "order id")
	cmd.Flags().StringVar(&taker, "taker", "", "taker address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in base units")
	cmd.Flags().StringVar(&signature, "signature", "", "taker signature")

	_ = cmd.MarkFlagRequired("order-id")

	return cmd
}

func newCancelOrderCmd(flags *globalFlags) *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "cancel-order",
		Short: "Cancel an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := flags.rpc().CancelOrder(cmd.Context(), orderID)

			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().StringVar(&orderID, "order-id", "", "order id")

	_ = cmd.MarkFlagRequired("order-id")

	return cmd
}

func newQuoteCmd(flags *globalFlags) *cobra.Command {
	var (
		inputToken  string
		outputToken string
		inputAmount string
		chainID     int64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Request a quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := flags.rpc().RequestQuote(cmd.Context(), inputToken, outputToken, inputAmount, chainID)

			return printResponse(cmd, resp, err)
		},
	}

	cmd.Flags().StringVar(&inputToken, "input-token", "", "input token address")
	cmd.Flags().StringVar(&outputToken, "output-token", "", "output token address")
	cmd.Flags().StringVar(&inputAmount, "input-amount", "", "input amount in base units")
	cmd.Flags().Int64Var(&chainID, "chain-id", 1, "chain id")

	return cmd
}
