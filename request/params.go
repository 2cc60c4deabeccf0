package request

import "github.com/mailru/easyjson/jwriter"

type AccountOrders struct {
	APIKey string
}

func (v *AccountOrders) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)
	o.apiKey(v.APIKey)
	o.close()
}

// TakeOrder uses the snake_case order_id key, unlike CancelOrder.
type TakeOrder struct {
	APIKey    string
	OrderID   string
	Taker     string
	Amount    string
	Signature string
}

func (v *TakeOrder) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)
	o.apiKey(v.APIKey)
	o.str("order_id", v.OrderID)
	o.str("taker", v.Taker)
	o.str("amount", v.Amount)
	o.str("signature", v.Signature)
	o.close()
}

type CancelOrder struct {
	APIKey  string
	OrderID string
}

func (v *CancelOrder) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)
	o.apiKey(v.APIKey)
	o.str("orderId", v.OrderID)
	o.close()
}

type RequestQuote struct {
	APIKey      string
	InputToken  string
	OutputToken string
	InputAmount string
	ChainID     int64
}

func (v *RequestQuote) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)
	o.apiKey(v.APIKey)
	o.str("inputToken", v.InputToken)
	o.str("outputToken", v.OutputToken)
	o.str("inputAmount", v.InputAmount)
	o.num("chainId", v.ChainID)
	o.close()
}
