package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/conf"
	"github.com/soulgarden/aori-client/dictionary"
)

const subscribeMessage = `{"id":1,"jsonrpc":"2.0","method":"aori_subscribeOrderbook","params":[]}`

//nolint: gochecknoglobals
var upgrader = websocket.Upgrader{}

// newWsServer runs serve for every connection after checking the subscribe frame comes first.
func newWsServer(t *testing.T, serve func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)

			return
		}

		defer conn.Close()

		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read subscribe: %v", err)

			return
		}

		if msgType != websocket.TextMessage || string(msg) != subscribeMessage {
			t.Errorf("first frame = %d %s, want subscribe", msgType, msg)
		}

		serve(conn)
	}))

	t.Cleanup(srv.Close)

	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestSession(url string) *Session {
	logger := zerolog.Nop()

	return NewSession(&conf.Aori{WsEndpoint: url}, &logger)
}

func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

type recorder struct {
	opened   int
	messages []string
	errs     []error
	closed   int
}

func (r *recorder) handlers(onMessage func(msg []byte)) Handlers {
	return Handlers{
		OnOpen: func() { r.opened++ },
		OnMessage: func(msg []byte) {
			r.messages = append(r.messages, string(msg))

			if onMessage != nil {
				onMessage(msg)
			}
		},
		OnError: func(err error) { r.errs = append(r.errs, err) },
		OnClose: func() { r.closed++ },
	}
}

func TestSession_ClosedByServer(t *testing.T) {
	t.Parallel()

	srv := newWsServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"update":1}`))
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0x1})
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"update":2}`))
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second),
		)

		drain(conn)
	})

	s := newTestSession(wsURL(srv))
	rec := &recorder{}

	if err := s.Run(context.Background(), rec.handlers(nil)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if want := []string{`{"update":1}`, `{"update":2}`}; strings.Join(rec.messages, "|") != strings.Join(want, "|") {
		t.Errorf("messages = %v, want %v", rec.messages, want)
	}

	if rec.opened != 1 || rec.closed != 1 || len(rec.errs) != 0 {
		t.Errorf("recorder = %+v", rec)
	}

	if s.State() != StateClosed {
		t.Errorf("State() = %s, want closed", s.State())
	}

	if err := s.Run(context.Background(), Handlers{}); !errors.Is(err, dictionary.ErrSessionUsed) {
		t.Errorf("second Run() error = %v, want %v", err, dictionary.ErrSessionUsed)
	}
}

func TestSession_ClosedByCaller(t *testing.T) {
	t.Parallel()

	srv := newWsServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"update":1}`))

		drain(conn)
	})

	s := newTestSession(wsURL(srv))
	rec := &recorder{}

	err := s.Run(context.Background(), rec.handlers(func([]byte) { s.Close() }))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rec.messages) != 1 || rec.closed != 1 || len(rec.errs) != 0 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestSession_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := newWsServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"update":1}`))

		drain(conn)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestSession(wsURL(srv))
	rec := &recorder{}

	err := s.Run(ctx, rec.handlers(func([]byte) { cancel() }))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}

	if rec.closed != 1 || len(rec.errs) != 0 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestSession_ConnectionDropped(t *testing.T) {
	t.Parallel()

	srv := newWsServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"update":1}`))
		_ = conn.UnderlyingConn().Close()
	})

	s := newTestSession(wsURL(srv))
	rec := &recorder{}

	err := s.Run(context.Background(), rec.handlers(nil))
	if err == nil {
		t.Fatalf("Run() error = nil, want transport error")
	}

	if len(rec.messages) != 1 || len(rec.errs) != 1 || rec.closed != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestSession_DialFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s := newTestSession(wsURL(srv))
	rec := &recorder{}

	if err := s.Run(context.Background(), rec.handlers(nil)); err == nil {
		t.Fatalf("Run() error = nil, want dial error")
	}

	if rec.opened != 0 || len(rec.errs) != 1 || rec.closed != 1 {
		t.Errorf("recorder = %+v", rec)
	}

	if s.State() != StateClosed {
		t.Errorf("State() = %s, want closed", s.State())
	}
}
