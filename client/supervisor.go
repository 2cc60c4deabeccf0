package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/conf"
	"github.com/soulgarden/aori-client/dictionary"
	"github.com/tevino/abool"
)

// Supervisor keeps a subscription alive by starting a fresh Runner whenever the previous one
// ends. The delay between runs comes from backoff. A run counts as healthy only when it stayed
// open for at least stableAfter; that resets the backoff and the failure count. Every other run
// is a failure. maxReconnects bounds consecutive failures, 0 means no bound.
type Supervisor struct {
	newRunner     func() Runner
	backoff       *Backoff
	maxReconnects int
	stableAfter   time.Duration
	logger        *zerolog.Logger

	isClosed *abool.AtomicBool
	done     chan struct{}
	doneOnce sync.Once

	mu      sync.Mutex
	current Runner
}

func NewSupervisor(
	newRunner func() Runner,
	backoff *Backoff,
	maxReconnects int,
	stableAfter time.Duration,
	logger *zerolog.Logger,
) *Supervisor {
	return &Supervisor{
		newRunner:     newRunner,
		backoff:       backoff,
		maxReconnects: maxReconnects,
		stableAfter:   stableAfter,
		logger:        logger,
		isClosed:      abool.New(),
		done:          make(chan struct{}),
	}
}

func NewReconnectingSession(cfg *conf.Aori, logger *zerolog.Logger) *Supervisor {
	return NewSupervisor(
		func() Runner { return NewSession(cfg, logger) },
		NewBackoff(
			time.Duration(cfg.Subscription.BaseDelayMs)*time.Millisecond,
			time.Duration(cfg.Subscription.MaxDelayMs)*time.Millisecond,
		),
		cfg.Subscription.MaxReconnects,
		time.Duration(cfg.Subscription.StableAfterSec)*time.Second,
		logger,
	)
}

func (s *Supervisor) Run(ctx context.Context, h Handlers) error {
	failures := 0

	for {
		runner := s.newRunner()
		s.setCurrent(runner)

		if s.isClosed.IsSet() {
			return nil
		}

		var openedAt time.Time

		inner := h
		inner.OnOpen = func() {
			openedAt = time.Now()

			h.open()
		}

		err := runner.Run(ctx, inner)

		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case s.isClosed.IsSet():
			return nil
		}

		if !openedAt.IsZero() && time.Since(openedAt) >= s.stableAfter {
			failures = 0

			s.backoff.Reset()
		} else {
			failures++
		}

		if s.maxReconnects > 0 && failures > s.maxReconnects {
			if err == nil {
				return dictionary.ErrReconnectExhausted
			}

			return fmt.Errorf("%w: %s", dictionary.ErrReconnectExhausted, err.Error())
		}

		delay := s.backoff.Next()

		s.logger.Warn().
			Err(err).
			Int("attempt", failures).
			Dur("delay", delay).
			Msg("subscription ended, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-time.After(delay):
		}
	}
}

func (s *Supervisor) Close() {
	s.isClosed.Set()

	s.doneOnce.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current != nil {
		current.Close()
	}
}

func (s *Supervisor) setCurrent(r Runner) {
	s.mu.Lock()
	s.current = r
	s.mu.Unlock()
}
