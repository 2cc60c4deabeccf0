package request

import (
	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
	"github.com/soulgarden/aori-client/dictionary"
)

// Envelope is a JSON-RPC 2.0 request. Params are positional, every aori method takes at most one object.
type Envelope struct {
	ID      int64
	JSONRPC string
	Method  string
	Params  []easyjson.Marshaler
}

func NewEnvelope(method string, params ...easyjson.Marshaler) *Envelope {
	return &Envelope{
		ID:      dictionary.DefaultRequestID,
		JSONRPC: dictionary.JSONRPCVersion,
		Method:  method,
		Params:  params,
	}
}

func (e *Envelope) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)
	o.num("id", e.ID)
	o.str("jsonrpc", e.JSONRPC)
	o.str("method", e.Method)

	o.key("params").RawByte('[')

	for i, p := range e.Params {
		if i > 0 {
			w.RawByte(',')
		}

		if p == nil {
			w.RawString(null)

			continue
		}

		p.MarshalEasyJSON(w)
	}

	w.RawByte(']')
	o.close()
}

// Msg is a websocket frame queued for the writer goroutine.
type Msg struct {
	Type    int
	Payload []byte
}
