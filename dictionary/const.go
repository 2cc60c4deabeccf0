package dictionary

import "time"

const (
	DefaultEndpoint   = "https://api.aori.io"
	DefaultWsEndpoint = "wss://api.aori.io/ws"

	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
	AuthHeader        = "Authorization"
	BearerPrefix      = "Bearer "

	SignalChLen      = 1
	ShutDownDuration = time.Second * 5
)
