package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mailru/easyjson"
	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/conf"
	"github.com/soulgarden/aori-client/dictionary"
	"github.com/soulgarden/aori-client/request"
	"github.com/soulgarden/aori-client/response"
	"go.uber.org/atomic"
)

type Option func(c *RPC)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *RPC) {
		c.httpClient = httpClient
	}
}

// RPC posts JSON-RPC envelopes to the aori endpoint and hands back whatever body comes back.
// Calls share nothing but the api key and may run concurrently.
type RPC struct {
	endpoint   string
	apiKey     *atomic.String
	httpClient *http.Client
	retry      conf.Retry
	logger     *zerolog.Logger
}

func NewRPC(cfg *conf.Aori, logger *zerolog.Logger, opts ...Option) *RPC {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = dictionary.DefaultEndpoint
	}

	c := &RPC{
		endpoint: endpoint,
		apiKey:   atomic.NewString(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutMs) * time.Millisecond,
		},
		retry:  cfg.Retry,
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Authenticate replaces the key sent by every later call. Nothing is sent to the server.
func (c *RPC) Authenticate(apiKey string) {
	c.apiKey.Store(apiKey)
}

func (c *RPC) Ping(ctx context.Context) (*response.Response, error) {
	return c.call(ctx, c.apiKey.Load(), request.NewEnvelope(dictionary.Ping))
}

func (c *RPC) AccountOrders(ctx context.Context) (*response.Response, error) {
	key := c.apiKey.Load()

	return c.call(ctx, key, request.NewEnvelope(dictionary.AccountOrders, &request.AccountOrders{APIKey: key}))
}

// ViewOrderbook sends the filter as is, a nil filter asks for the first 100 entries.
func (c *RPC) ViewOrderbook(ctx context.Context, filter *request.OrderbookFilter) (*response.Response, error) {
	if filter == nil {
		filter = request.NewOrderbookFilter()
	}

	return c.call(ctx, c.apiKey.Load(), request.NewEnvelope(dictionary.ViewOrderbook, filter))
}

func (c *RPC) MakeOrder(ctx context.Context, order *request.Order) (*response.Response, error) {
	key := c.apiKey.Load()

	return c.call(ctx, key, request.NewEnvelope(dictionary.MakeOrder, &request.MakeOrder{APIKey: key, Order: order}))
}

func (c *RPC) TakeOrder(ctx context.Context, orderID, taker, amount, signature string) (*response.Response, error) {
	key := c.apiKey.Load()

	return c.call(ctx, key, request.NewEnvelope(dictionary.TakeOrder, &request.TakeOrder{
		APIKey:    key,
		OrderID:   orderID,
		Taker:     taker,
		Amount:    amount,
		Signature: signature,
	}))
}

func (c *RPC) CancelOrder(ctx context.Context, orderID string) (*response.Response, error) {
	key := c.apiKey.Load()

	return c.call(ctx, key, request.NewEnvelope(dictionary.CancelOrder, &request.CancelOrder{
		APIKey:  key,
		OrderID: orderID,
	}))
}

func (c *RPC) RequestQuote(
	ctx context.Context,
	inputToken, outputToken, inputAmount string,
	chainID int64,
) (*response.Response, error) {
	key := c.apiKey.Load()

	return c.call(ctx, key, request.NewEnvelope(dictionary.RequestQuote, &request.RequestQuote{
		APIKey:      key,
		InputToken:  inputToken,
		OutputToken: outputToken,
		InputAmount: inputAmount,
		ChainID:     chainID,
	}))
}

func (c *RPC) call(ctx context.Context, apiKey string, env *request.Envelope) (*response.Response, error) {
	body, err := easyjson.Marshal(env)
	if err != nil {
		c.logger.Err(err).Str("method", env.Method).Msg("marshal")

		return nil, err
	}

	c.logger.Debug().Str("method", env.Method).Str("endpoint", c.endpoint).Msg("send request")

	status, respBody, err := c.postWithRetry(ctx, env.Method, apiKey, body)
	if err != nil {
		c.logger.Err(err).Str("method", env.Method).Msg("request failed")

		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		c.logger.Warn().Str("method", env.Method).Int("status", status).Msg("non-success status")
	}

	c.logger.Debug().
		Str("method", env.Method).
		Int("status", status).
		Bytes("body", respBody).
		Msg("got response")

	resp, err := response.Parse(status, respBody)
	if err != nil {
		c.logger.Err(err).Str("method", env.Method).Bytes("body", respBody).Msg("unmarshall")

		return nil, err
	}

	return resp, nil
}

// postWithRetry re-sends the same body on transport failures only. A retried aori_makeOrder or
// aori_takeOrder may be applied twice by the server, so retries stay off unless configured.
func (c *RPC) postWithRetry(ctx context.Context, method, apiKey string, body []byte) (int, []byte, error) {
	status, respBody, err := c.post(ctx, apiKey, body)
	if err == nil || c.retry.Attempts <= 0 {
		return status, respBody, err
	}

	backoff := NewBackoff(
		time.Duration(c.retry.BaseDelayMs)*time.Millisecond,
		time.Duration(c.retry.MaxDelayMs)*time.Millisecond,
	)

	for attempt := 1; attempt <= c.retry.Attempts; attempt++ {
		delay := backoff.Next()

		c.logger.Warn().
			Err(err).
			Str("method", method).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("request failed, retrying")

		select {
		case <-ctx.Done():
			return 0, nil, err
		case <-time.After(delay):
		}

		status, respBody, err = c.post(ctx, apiKey, body)
		if err == nil {
			return status, respBody, nil
		}
	}

	return 0, nil, err
}

func (c *RPC) post(ctx context.Context, apiKey string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set(dictionary.ContentTypeHeader, dictionary.ContentTypeJSON)

	if apiKey != "" {
		req.Header.Set(dictionary.AuthHeader, dictionary.BearerPrefix+apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}

	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}

	return res.StatusCode, respBody, nil
}
