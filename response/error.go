package response

import "fmt"

// Err is the error member of a JSON-RPC response.
type Err struct {
	Code    int64
	Message string
	Data    interface{}
}

func newErr(v interface{}) *Err {
	switch e := v.(type) {
	case string:
		return &Err{Message: e}
	case map[string]interface{}:
		er := &Err{Data: e["data"]}

		if code, ok := e["code"].(float64); ok {
			er.Code = int64(code)
		}

		if msg, ok := e["message"].(string); ok {
			er.Message = msg
		}

		return er
	default:
		return &Err{Data: v}
	}
}

func (e *Err) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
