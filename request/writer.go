package request

import "github.com/mailru/easyjson/jwriter"

const null = "null"

type object struct {
	w     *jwriter.Writer
	first bool
}

func openObject(w *jwriter.Writer) *object {
	w.RawByte('{')

	return &object{w: w, first: true}
}

func (o *object) key(name string) *jwriter.Writer {
	if !o.first {
		o.w.RawByte(',')
	}

	o.first = false
	o.w.String(name)
	o.w.RawByte(':')

	return o.w
}

func (o *object) close() {
	o.w.RawByte('}')
}

func (o *object) str(name, v string) {
	o.key(name).String(v)
}

func (o *object) num(name string, v int64) {
	o.key(name).Int64(v)
}

// apiKey writes null for an unauthenticated client, the server decides what to reject.
func (o *object) apiKey(v string) {
	w := o.key("apiKey")
	if v == "" {
		w.RawString(null)

		return
	}

	w.String(v)
}

func (o *object) optStr(name string, v *string) {
	w := o.key(name)
	if v == nil {
		w.RawString(null)

		return
	}

	w.String(*v)
}

func (o *object) optInt64(name string, v *int64) {
	w := o.key(name)
	if v == nil {
		w.RawString(null)

		return
	}

	w.Int64(*v)
}

func (o *object) optBool(name string, v *bool) {
	w := o.key(name)
	if v == nil {
		w.RawString(null)

		return
	}

	w.Bool(*v)
}
