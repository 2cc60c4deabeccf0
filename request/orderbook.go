package request

import (
	"github.com/mailru/easyjson/jwriter"
	"github.com/soulgarden/aori-client/dictionary"
)

type OrderbookQuery struct {
	Base  *string
	Quote *string
}

func (q *OrderbookQuery) isEmpty() bool {
	return q == nil || (q.Base == nil && q.Quote == nil)
}

// OrderbookFilter is the aori_viewOrderbook parameter object. Nil fields are left out of the
// payload. limit is always sent: a nil Limit is sent as 100, a set one verbatim, 0 included.
type OrderbookFilter struct {
	ChainID *int64
	Query   *OrderbookQuery
	Side    *string
	Limit   *int
}

type FilterOption func(f *OrderbookFilter)

func WithChainID(chainID int64) FilterOption {
	return func(f *OrderbookFilter) {
		f.ChainID = &chainID
	}
}

func WithBase(base string) FilterOption {
	return func(f *OrderbookFilter) {
		f.query().Base = &base
	}
}

func WithQuote(quote string) FilterOption {
	return func(f *OrderbookFilter) {
		f.query().Quote = &quote
	}
}

func WithSide(side string) FilterOption {
	return func(f *OrderbookFilter) {
		f.Side = &side
	}
}

func WithLimit(limit int) FilterOption {
	return func(f *OrderbookFilter) {
		f.Limit = &limit
	}
}

func NewOrderbookFilter(opts ...FilterOption) *OrderbookFilter {
	limit := dictionary.DefaultOrderbookLimit
	f := &OrderbookFilter{Limit: &limit}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *OrderbookFilter) query() *OrderbookQuery {
	if f.Query == nil {
		f.Query = &OrderbookQuery{}
	}

	return f.Query
}

func (f *OrderbookFilter) MarshalEasyJSON(w *jwriter.Writer) {
	o := openObject(w)

	if f.ChainID != nil {
		o.num("chainId", *f.ChainID)
	}

	if !f.Query.isEmpty() {
		q := openObject(o.key("query"))

		if f.Query.Base != nil {
			q.str("base", *f.Query.Base)
		}

		if f.Query.Quote != nil {
			q.str("quote", *f.Query.Quote)
		}

		q.close()
	}

	if f.Side != nil {
		o.str("side", *f.Side)
	}

	limit := dictionary.DefaultOrderbookLimit
	if f.Limit != nil {
		limit = *f.Limit
	}

	o.key("limit").Int(limit)
	o.close()
}
