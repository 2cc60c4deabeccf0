package dictionary

const (
	Ping               = "aori_ping"
	AccountOrders      = "aori_accountOrders"
	ViewOrderbook      = "aori_viewOrderbook"
	MakeOrder          = "aori_makeOrder"
	TakeOrder          = "aori_takeOrder"
	CancelOrder        = "aori_cancelOrder"
	RequestQuote       = "aori_requestQuote"
	SubscribeOrderbook = "aori_subscribeOrderbook"
)

const (
	JSONRPCVersion        = "2.0"
	DefaultRequestID      = 1
	DefaultOrderbookLimit = 100
	PongResult            = "aori_pong"
)

const (
	BuySide  = "BUY"
	SellSide = "SELL"
)
