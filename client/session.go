package client

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mailru/easyjson"
	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"
	"github.com/soulgarden/aori-client/conf"
	"github.com/soulgarden/aori-client/dictionary"
	"github.com/soulgarden/aori-client/request"
	"github.com/tevino/abool"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const defaultPingInterval = 15 * time.Second
const defaultReadDeadline = 20 * time.Second
const readChSize = 1024
const writeChSize = 1024
const writeWait = 10 * time.Second
const closeGracePeriod = time.Second
const eventSize = 1 << 20

type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Handlers receive session events. Every callback runs on the goroutine that called Run, one at a time.
// Nil callbacks are skipped.
type Handlers struct {
	OnOpen    func()
	OnMessage func(msg []byte)
	OnError   func(err error)
	OnClose   func()
}

func (h Handlers) open() {
	if h.OnOpen != nil {
		h.OnOpen()
	}
}

func (h Handlers) message(msg []byte) {
	if h.OnMessage != nil {
		h.OnMessage(msg)
	}
}

func (h Handlers) error(err error) {
	if h.OnError != nil {
		h.OnError(err)
	}
}

func (h Handlers) close() {
	if h.OnClose != nil {
		h.OnClose()
	}
}

// Runner is a subscription blocking in Run until it ends.
type Runner interface {
	Run(ctx context.Context, h Handlers) error
	Close()
}

// Session is one orderbook subscription over one websocket connection. It is single use:
// it never reconnects, wrap it in a Supervisor for that.
type Session struct {
	url          string
	pingInterval time.Duration
	readDeadline time.Duration
	dialer       *websocket.Dialer
	state        *atomic.Int32
	sendCh       chan request.Msg
	readCh       chan []byte
	isClosed     *abool.AtomicBool
	done         chan struct{}
	doneOnce     sync.Once
	logger       *zerolog.Logger
}

func NewSession(cfg *conf.Aori, logger *zerolog.Logger) *Session {
	url := cfg.WsEndpoint
	if url == "" {
		url = dictionary.DefaultWsEndpoint
	}

	pingInterval := time.Duration(cfg.Subscription.PingIntervalSec) * time.Second
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}

	readDeadline := time.Duration(cfg.Subscription.ReadDeadlineSec) * time.Second
	if readDeadline <= 0 {
		readDeadline = defaultReadDeadline
	}

	l := logger.With().Str("session_id", uuid.NewV4().String()).Logger()

	return &Session{
		url:          url,
		pingInterval: pingInterval,
		readDeadline: readDeadline,
		dialer:       websocket.DefaultDialer,
		state:        atomic.NewInt32(int32(StateIdle)),
		sendCh:       make(chan request.Msg, writeChSize),
		readCh:       make(chan []byte, readChSize),
		isClosed:     abool.New(),
		done:         make(chan struct{}),
		logger:       &l,
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// Close ends the session from any goroutine, including from inside a handler.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Run connects, subscribes and delivers messages until the server closes the connection,
// Close is called, ctx is cancelled or the transport fails. A transport failure is returned,
// a closed ctx returns ctx.Err(), the other endings return nil.
func (s *Session) Run(ctx context.Context, h Handlers) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateConnecting)) {
		return dictionary.ErrSessionUsed
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.done:
			cancel()
		case <-runCtx.Done():
		}
	}()

	conn, _, err := s.dialer.DialContext(runCtx, s.url, nil)
	if err != nil {
		s.logger.Err(err).Str("url", s.url).Msg("dial error")

		return s.finish(ctx, h, err)
	}

	defer conn.Close()

	s.logger.Debug().Str("url", s.url).Msg("new connection established")

	s.state.Store(int32(StateOpen))
	h.open()

	if err := s.subscribe(conn); err != nil {
		return s.finish(ctx, h, err)
	}

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()

		return s.read(gCtx, conn)
	})
	g.Go(func() error { return s.write(gCtx, conn) })
	g.Go(func() error { return s.pinger(gCtx) })
	g.Go(func() error {
		<-gCtx.Done()
		s.shutdown(conn)

		return nil
	})

	for msg := range s.readCh {
		h.message(msg)
	}

	return s.finish(ctx, h, g.Wait())
}

func (s *Session) finish(ctx context.Context, h Handlers, err error) error {
	s.isClosed.Set()
	s.state.Store(int32(StateClosed))

	if err != nil {
		h.error(err)
		h.close()

		return err
	}

	h.close()

	s.logger.Debug().Msg("session closed")

	return ctx.Err()
}

// subscribe goes out before the writer and pinger start, so it is always the first frame.
func (s *Session) subscribe(conn *websocket.Conn) error {
	body, err := easyjson.Marshal(request.NewEnvelope(dictionary.SubscribeOrderbook))
	if err != nil {
		s.logger.Err(err).Msg("marshal subscribe")

		return err
	}

	s.logger.Debug().Int("type", websocket.TextMessage).Bytes("body", body).Msg("send message")

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		s.logger.Err(err).Msg("send subscribe")

		return err
	}

	return nil
}

func (s *Session) read(ctx context.Context, conn *websocket.Conn) error {
	defer close(s.readCh)

	conn.SetReadLimit(eventSize)

	conn.SetPongHandler(func(string) error {
		if s.isClosed.IsSet() {
			return nil
		}

		return conn.SetReadDeadline(time.Now().Add(s.readDeadline))
	})

	for {
		if s.isClosed.IsNotSet() {
			if err := conn.SetReadDeadline(time.Now().Add(s.readDeadline)); err != nil {
				s.logger.Err(err).Msg("set read deadline")

				return err
			}
		}

		msgType, sourceMessage, err := conn.ReadMessage()
		if err != nil {
			switch {
			case s.isClosed.IsSet():
				s.logger.Debug().Err(err).Msg("read stopped after close")

				return nil
			case websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
				s.logger.Debug().Err(err).Msg("closed by server")

				return nil
			case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
				s.logger.Warn().Err(err).Msg("unexpected close error")

				return err
			default:
				s.logger.Err(err).Msg("got error")

				return err
			}
		}

		s.logger.Debug().
			Int("type", msgType).
			Bytes("payload", sourceMessage).
			Msg("got message")

		if msgType != websocket.TextMessage {
			s.logger.Warn().Int("type", msgType).Msg("skip non-text message")

			continue
		}

		if s.isClosed.IsSet() {
			s.logger.Warn().Bytes("payload", sourceMessage).Msg("got message, but session closed")

			continue
		}

		select {
		case s.readCh <- sourceMessage:
		case <-ctx.Done():
			s.logger.Warn().Bytes("payload", sourceMessage).Msg("got message, but session closing")
		}
	}
}

func (s *Session) write(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-s.sendCh:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}

			if err := conn.WriteMessage(msg.Type, msg.Payload); err != nil {
				if s.isClosed.IsSet() {
					return nil
				}

				s.logger.Err(err).
					Int("type", msg.Type).
					Bytes("body", msg.Payload).
					Msg("write failed")

				return err
			}
		}
	}
}

func (s *Session) pinger(ctx context.Context) error {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			select {
			case s.sendCh <- request.Msg{Type: websocket.PingMessage}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// shutdown sends a close frame and gives the server closeGracePeriod to answer it.
func (s *Session) shutdown(conn *websocket.Conn) {
	if !s.isClosed.SetToIf(false, true) {
		return
	}

	err := conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	if err != nil {
		s.logger.Debug().Err(err).Msg("send close message")
	}

	if err := conn.SetReadDeadline(time.Now().Add(closeGracePeriod)); err != nil {
		s.logger.Debug().Err(err).Msg("set close deadline")
	}
}
