package response

import (
	"bytes"
	"fmt"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/soulgarden/aori-client/dictionary"
)

// Response is the decoded body exactly as the service sent it. Value holds one of
// map[string]interface{}, []interface{}, string, float64, bool or nil.
// Status is informational, non-2xx bodies are decoded the same way.
type Response struct {
	Status int
	Raw    []byte
	Value  interface{}
}

func Parse(status int, body []byte) (*Response, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: status %d", dictionary.ErrEmptyResponse, status)
	}

	r := &Response{Status: status, Raw: body}

	if err := easyjson.Unmarshal(body, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Response) UnmarshalEasyJSON(in *jlexer.Lexer) {
	r.Value = in.Interface()
	in.Consumed()
}

func (r *Response) Object() (map[string]interface{}, bool) {
	m, ok := r.Value.(map[string]interface{})

	return m, ok
}

func (r *Response) Result() (interface{}, bool) {
	m, ok := r.Object()
	if !ok {
		return nil, false
	}

	v, ok := m["result"]

	return v, ok
}

// Err returns the JSON-RPC error object, or nil when the body carries none.
func (r *Response) Err() *Err {
	m, ok := r.Object()
	if !ok {
		return nil
	}

	v, ok := m["error"]
	if !ok || v == nil {
		return nil
	}

	return newErr(v)
}

func (r *Response) IsPong() bool {
	v, ok := r.Result()
	if !ok {
		return false
	}

	s, ok := v.(string)

	return ok && s == dictionary.PongResult
}

// ResultRaw returns the undecoded bytes of the result field.
func (r *Response) ResultRaw() ([]byte, error) {
	f := &resultField{}

	if err := easyjson.Unmarshal(r.Raw, f); err != nil {
		return nil, err
	}

	if !f.found {
		return nil, dictionary.ErrNoResult
	}

	return f.raw, nil
}

// DecodeResult decodes the result field into v. A JSON-RPC error in the body is returned as *Err.
func (r *Response) DecodeResult(v easyjson.Unmarshaler) error {
	if e := r.Err(); e != nil {
		return e
	}

	raw, err := r.ResultRaw()
	if err != nil {
		return err
	}

	return easyjson.Unmarshal(raw, v)
}

type resultField struct {
	raw   []byte
	found bool
}

func (f *resultField) UnmarshalEasyJSON(in *jlexer.Lexer) {
	in.Delim('{')

	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()

		if key == "result" {
			f.raw = append([]byte(nil), in.Raw()...)
			f.found = true
		} else {
			in.SkipRecursive()
		}

		in.WantComma()
	}

	in.Delim('}')
	in.Consumed()
}
