package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/conf"
	"github.com/soulgarden/aori-client/dictionary"
	"github.com/soulgarden/aori-client/request"
	"github.com/soulgarden/aori-client/response"
)

type captured struct {
	mu      sync.Mutex
	headers http.Header
	body    []byte
	calls   int
}

func (c *captured) last() (http.Header, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.headers, c.body
}

func newRPCServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()

	c := &captured{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		c.mu.Lock()
		c.headers = r.Header.Clone()
		c.body = body
		c.calls++
		c.mu.Unlock()

		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))

	t.Cleanup(srv.Close)

	return srv, c
}

func newTestRPC(endpoint, apiKey string, opts ...Option) *RPC {
	logger := zerolog.Nop()

	return NewRPC(&conf.Aori{APIKey: apiKey, Endpoint: endpoint}, &logger, opts...)
}

type envelope struct {
	ID      int64           `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

func decodeJSON(t *testing.T, raw []byte) interface{} {
	t.Helper()

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}

	return v
}

func TestRPC_Operations(t *testing.T) {
	t.Parallel()

	counter := int64(3)

	tests := []struct {
		name       string
		call       func(ctx context.Context, c *RPC) (*response.Response, error)
		wantMethod string
		wantParams string
	}{
		{
			name:       "ping",
			call:       func(ctx context.Context, c *RPC) (*response.Response, error) { return c.Ping(ctx) },
			wantMethod: dictionary.Ping,
			wantParams: `[]`,
		},
		{
			name:       "account orders",
			call:       func(ctx context.Context, c *RPC) (*response.Response, error) { return c.AccountOrders(ctx) },
			wantMethod: dictionary.AccountOrders,
			wantParams: `[{"apiKey":"key"}]`,
		},
		{
			name: "view orderbook",
			call: func(ctx context.Context, c *RPC) (*response.Response, error) {
				return c.ViewOrderbook(ctx, request.NewOrderbookFilter(
					request.WithSide(dictionary.BuySide),
					request.WithLimit(50),
				))
			},
			wantMethod: dictionary.ViewOrderbook,
			wantParams: `[{"side":"BUY","limit":50}]`,
		},
		{
			name: "view orderbook without filter",
			call: func(ctx context.Context, c *RPC) (*response.Response, error) {
				return c.ViewOrderbook(ctx, nil)
			},
			wantMethod: dictionary.ViewOrderbook,
			wantParams: `[{"limit":100}]`,
		},
		{
			name: "make order",
			call: func(ctx context.Context, c *RPC) (*response.Response, error) {
				return c.MakeOrder(ctx, &request.Order{
					Offerer:       "0xofferer",
					InputToken:    "0xweth",
					InputAmount:   "1000000000000000000",
					InputChainID:  1,
					InputZone:     "0xzone",
					OutputToken:   "0xusdc",
					OutputAmount:  "500000000000000000",
					OutputChainID: 1,
					OutputZone:    "0xzone",
					StartTime:     "1622548800",
					EndTime:       "1625130800",
					Salt:          "123456789",
					Counter:       &counter,
				})
			},
			wantMethod: dictionary.MakeOrder,
			wantParams: `[{"apiKey":"key","order":{"offerer":"0xofferer","inputToken":"0xweth",
				"inputAmount":"1000000000000000000","inputChainId":1,"inputZone":"0xzone",
				"outputToken":"0xusdc","outputAmount":"500000000000000000","outputChainId":1,
				"outputZone":"0xzone","startTime":"1622548800","endTime":"1625130800","salt":"123456789",
				"counter":3,"toWithdraw":null,"signature":null,"isPublic":null}}]`,
		},
		{
			name: "take order",
			call: func(ctx context.Context, c *RPC) (*response.Response, error) {
				return c.TakeOrder(ctx, "123456", "0xtaker", "1000", "0xsig")
			},
			wantMethod: dictionary.TakeOrder,
			wantParams: `[{"apiKey":"key","order_id":"123456","taker":"0xtaker","amount":"1000","signature":"0xsig"}]`,
		},
		{
			name: "cancel order",
			call: func(ctx context.Context, c *RPC) (*response.Response, error) {
				return c.CancelOrder(ctx, "123456")
			},
			wantMethod: dictionary.CancelOrder,
			wantParams: `[{"apiKey":"key","orderId":"123456"}]`,
		},
		{
			name: "request quote",
			call: func(ctx context.Context, c *RPC) (*response.Response, error) {
				return c.RequestQuote(ctx, "0xweth", "0xusdc", "1000000000000000000", 1)
			},
			wantMethod: dictionary.RequestQuote,
			wantParams: `[{"apiKey":"key","inputToken":"0xweth","outputToken":"0xusdc",
				"inputAmount":"1000000000000000000","chainId":1}]`,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, c := newRPCServer(t, http.StatusOK, `{"id":1,"jsonrpc":"2.0","result":{"ok":true}}`)

			resp, err := tt.call(context.Background(), newTestRPC(srv.URL, "key"))
			if err != nil {
				t.Fatalf("call error = %v", err)
			}

			if _, ok := resp.Result(); !ok {
				t.Errorf("Result() missing in %s", resp.Raw)
			}

			headers, body := c.last()

			if got := headers.Get(dictionary.ContentTypeHeader); got != dictionary.ContentTypeJSON {
				t.Errorf("Content-Type = %s", got)
			}

			env := envelope{}
			if err := json.Unmarshal(body, &env); err != nil {
				t.Fatalf("unmarshal body %s: %v", body, err)
			}

			if env.JSONRPC != "2.0" || env.ID != 1 {
				t.Errorf("envelope = %+v", env)
			}

			if env.Method != tt.wantMethod {
				t.Errorf("method = %s, want %s", env.Method, tt.wantMethod)
			}

			if got, want := decodeJSON(t, env.Params), decodeJSON(t, []byte(tt.wantParams)); !reflect.DeepEqual(got, want) {
				t.Errorf("params = %s, want %s", env.Params, tt.wantParams)
			}
		})
	}
}

func TestRPC_Authenticate(t *testing.T) {
	t.Parallel()

	srv, c := newRPCServer(t, http.StatusOK, `{"id":1,"jsonrpc":"2.0","result":[]}`)
	cli := newTestRPC(srv.URL, "")

	if _, err := cli.AccountOrders(context.Background()); err != nil {
		t.Fatal(err)
	}

	headers, body := c.last()

	if _, ok := headers[dictionary.AuthHeader]; ok {
		t.Errorf("Authorization header sent without a key: %v", headers[dictionary.AuthHeader])
	}

	if !strings.Contains(string(body), `"apiKey":null`) {
		t.Errorf("body = %s, want null apiKey", body)
	}

	cli.Authenticate("X")

	if _, err := cli.AccountOrders(context.Background()); err != nil {
		t.Fatal(err)
	}

	headers, body = c.last()

	if got := headers.Get(dictionary.AuthHeader); got != "Bearer X" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer X")
	}

	if !strings.Contains(string(body), `"apiKey":"X"`) {
		t.Errorf("body = %s, want apiKey X", body)
	}

	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}

	if headers, _ = c.last(); headers.Get(dictionary.AuthHeader) != "Bearer X" {
		t.Errorf("Authorization = %q after ping", headers.Get(dictionary.AuthHeader))
	}
}

func TestRPC_Ping(t *testing.T) {
	t.Parallel()

	srv, _ := newRPCServer(t, http.StatusOK, `{"id":1,"jsonrpc":"2.0","result":"aori_pong"}`)

	resp, err := newTestRPC(srv.URL, "").Ping(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !resp.IsPong() {
		t.Errorf("IsPong() = false for %s", resp.Raw)
	}
}

func TestRPC_Responses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		rpcErr  bool
	}{
		{name: "error body with 500", status: http.StatusInternalServerError, body: `{"error":{"code":-32603,"message":"boom"}}`, rpcErr: true},
		{name: "error body with 200", status: http.StatusOK, body: `{"id":1,"error":{"code":-32602,"message":"bad"}}`, rpcErr: true},
		{name: "html", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: true},
		{name: "empty", status: http.StatusNoContent, body: ``, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newRPCServer(t, tt.status, tt.body)

			resp, err := newTestRPC(srv.URL, "key").CancelOrder(context.Background(), "1")
			if tt.wantErr {
				if err == nil {
					t.Errorf("CancelOrder() error = nil, want error")
				}

				return
			}

			if err != nil {
				t.Fatalf("CancelOrder() error = %v", err)
			}

			if resp.Status != tt.status {
				t.Errorf("Status = %d, want %d", resp.Status, tt.status)
			}

			if (resp.Err() != nil) != tt.rpcErr {
				t.Errorf("Err() = %v, want rpc error %v", resp.Err(), tt.rpcErr)
			}
		})
	}
}

type flakyTransport struct {
	mu       sync.Mutex
	calls    int
	failures int
}

var errTransport = errors.New("connection refused")

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if fail {
		return nil, errTransport
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"id":1,"jsonrpc":"2.0","result":"aori_pong"}`)),
		Header:     http.Header{},
		Request:    r,
	}, nil
}

func TestRPC_Retry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		attempts  int
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{name: "disabled by default", attempts: 0, failures: 1, wantCalls: 1, wantErr: true},
		{name: "recovers", attempts: 2, failures: 2, wantCalls: 3},
		{name: "gives up", attempts: 2, failures: 5, wantCalls: 3, wantErr: true},
		{name: "no failure", attempts: 3, failures: 0, wantCalls: 1},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := &flakyTransport{failures: tt.failures}
			logger := zerolog.Nop()

			cli := NewRPC(&conf.Aori{
				Endpoint: "http://aori.test",
				Retry:    conf.Retry{Attempts: tt.attempts, BaseDelayMs: 1, MaxDelayMs: 2},
			}, &logger, WithHTTPClient(&http.Client{Transport: transport}))

			resp, err := cli.Ping(context.Background())

			if tt.wantErr {
				if !errors.Is(err, errTransport) {
					t.Errorf("Ping() error = %v, want %v", err, errTransport)
				}
			} else if err != nil || !resp.IsPong() {
				t.Errorf("Ping() = %v, %v", resp, err)
			}

			if transport.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", transport.calls, tt.wantCalls)
			}
		})
	}
}
