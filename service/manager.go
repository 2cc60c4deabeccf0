package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/dictionary"
)

type Manager struct {
	logger *zerolog.Logger
}

func NewManager(logger *zerolog.Logger) *Manager {
	return &Manager{logger: logger}
}

// ListenSignal returns a ctx cancelled on SIGINT or SIGTERM. The process is killed if it is
// still running dictionary.ShutDownDuration after the signal.
func (s *Manager) ListenSignal(parent context.Context) (context.Context, context.CancelFunc) {
	interrupt := make(chan os.Signal, dictionary.SignalChLen)

	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(parent)

	go func() {
		defer signal.Stop(interrupt)

		select {
		case <-interrupt:
		case <-ctx.Done():
			return
		}

		s.logger.Warn().Msg("interrupt signal received")

		cancel()

		<-time.After(dictionary.ShutDownDuration)

		s.logger.Warn().Msg("killed by shutdown timeout")

		os.Exit(1)
	}()

	return ctx, cancel
}
