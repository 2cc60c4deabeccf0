package request

import "github.com/mailru/easyjson/jwriter"

// Order is a one-sided intent to swap InputAmount of InputToken on InputChainID for OutputAmount
// of OutputToken on OutputChainID. Amounts are base-unit integers and times are unix seconds,
// both carried as strings. Counter, ToWithdraw, Signature and IsPublic are optional and are sent
// as null when unset. The signature is produced by the caller.
type Order struct {
	Offerer       string
	InputToken    string
	InputAmount   string
	InputChainID  int64
	InputZone     string
	OutputToken   string
	OutputAmount  string
	OutputChainID int64
	OutputZone    string
	StartTime     string
	EndTime       string
	Salt          string
	Counter       *int64
	ToWithdraw    *bool
	Signature     *string
	IsPublic      *bool
}

func (v *Order) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)
	o.str("offerer", v.Offerer)
	o.str("inputToken", v.InputToken)
	o.str("inputAmount", v.InputAmount)
	o.num("inputChainId", v.InputChainID)
	o.str("inputZone", v.InputZone)
	o.str("outputToken", v.OutputToken)
	o.str("outputAmount", v.OutputAmount)
	o.num("outputChainId", v.OutputChainID)
	o.str("outputZone", v.OutputZone)
	o.str("startTime", v.StartTime)
	o.str("endTime", v.EndTime)
	o.str("salt", v.Salt)
	o.optInt64("counter", v.Counter)
	o.optBool("toWithdraw", v.ToWithdraw)
	o.optStr("signature", v.Signature)
	o.optBool("isPublic", v.IsPublic)
	o.close()
}

type MakeOrder struct {
	APIKey string
	Order  *Order
}

func (v *MakeOrder) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)
	o.apiKey(v.APIKey)

	ow := o.key("order")
	if v.Order == nil {
		ow.RawString(null)
	} else {
		v.Order.MarshalEasyJSON(ow)
	}

	o.close()
}
