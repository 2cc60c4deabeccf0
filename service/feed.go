package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/broker"
	"github.com/soulgarden/aori-client/client"
	"github.com/soulgarden/aori-client/conf"
)

// Feed publishes every orderbook update of one subscription to the broker. Taps are called
// with every update before it is published, on the session goroutine. A slow tap holds the
// reader back, it never misses an update.
type Feed struct {
	eventBroker *broker.Broker
	runner      client.Runner
	taps        []func(msg []byte)
	logger      *zerolog.Logger
}

func NewFeed(cfg *conf.Aori, eventBroker *broker.Broker, logger *zerolog.Logger) *Feed {
	var runner client.Runner = client.NewSession(cfg, logger)
	if cfg.Subscription.Reconnect {
		runner = client.NewReconnectingSession(cfg, logger)
	}

	return NewFeedWithRunner(runner, eventBroker, logger)
}

func NewFeedWithRunner(runner client.Runner, eventBroker *broker.Broker, logger *zerolog.Logger) *Feed {
	return &Feed{eventBroker: eventBroker, runner: runner, logger: logger}
}

// Tap registers fn for every update. It must be called before Start.
func (s *Feed) Tap(fn func(msg []byte)) {
	s.taps = append(s.taps, fn)
}

func (s *Feed) Start(ctx context.Context) error {
	s.logger.Warn().Msg("start listen orderbook")
	defer s.logger.Warn().Msg("stop listen orderbook")

	return s.runner.Run(ctx, client.Handlers{
		OnOpen: func() {
			s.logger.Info().Msg("subscribed to orderbook")
		},
		OnMessage: s.dispatch,
		OnError: func(err error) {
			s.logger.Err(err).Msg("orderbook subscription error")
		},
		OnClose: func() {
			s.logger.Warn().Msg("orderbook connection closed")
		},
	})
}

func (s *Feed) dispatch(msg []byte) {
	for _, tap := range s.taps {
		tap(msg)
	}

	s.eventBroker.Publish(msg)
}

func (s *Feed) Close() {
	s.runner.Close()
}
