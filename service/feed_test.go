package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/broker"
	"github.com/soulgarden/aori-client/client"
)

var errStopped = errors.New("stopped")

type scriptedRunner struct {
	messages []string
	closed   bool
}

func (r *scriptedRunner) Run(_ context.Context, h client.Handlers) error {
	h.OnOpen()

	for _, msg := range r.messages {
		h.OnMessage([]byte(msg))
	}

	h.OnError(errStopped)
	h.OnClose()

	return errStopped
}

func (r *scriptedRunner) Close() {
	r.closed = true
}

func TestFeed_Start(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	eventBroker := broker.New(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go eventBroker.Start(ctx)

	updates := eventBroker.Subscribe()
	runner := &scriptedRunner{messages: []string{`{"update":1}`, `{"update":2}`}}
	feed := NewFeedWithRunner(runner, eventBroker, &logger)

	var tapped []string

	feed.Tap(func(msg []byte) {
		tapped = append(tapped, string(msg))
	})

	if err := feed.Start(ctx); !errors.Is(err, errStopped) {
		t.Fatalf("Start() error = %v, want %v", err, errStopped)
	}

	for _, want := range runner.messages {
		select {
		case got := <-updates:
			if string(got) != want {
				t.Errorf("update got = %s, want %s", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", want)
		}
	}

	if len(tapped) != len(runner.messages) {
		t.Errorf("tapped = %v, want %v", tapped, runner.messages)
	}

	feed.Close()

	if !runner.closed {
		t.Errorf("Close() did not reach the runner")
	}
}
