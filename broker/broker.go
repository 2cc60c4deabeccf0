package broker

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/dictionary"
)

const eventChSize = 1024

// Broker fans orderbook updates out to every subscriber. A subscriber whose buffer is full
// misses the update instead of stalling the others. Subscribe returns once the subscriber is
// registered, so it gets every update published after that.
type Broker struct {
	subscribers map[chan []byte]struct{}
	subCh       chan chan []byte
	unsubCh     chan chan []byte
	publishCh   chan []byte
	logger      *zerolog.Logger
}

func New(logger *zerolog.Logger) *Broker {
	return &Broker{
		subscribers: make(map[chan []byte]struct{}),
		subCh:       make(chan chan []byte),
		unsubCh:     make(chan chan []byte),
		publishCh:   make(chan []byte, eventChSize),
		logger:      logger,
	}
}

// Start serves the broker until ctx is done, then closes every subscriber channel.
func (b *Broker) Start(ctx context.Context) {
	defer func() {
		for msgCh := range b.subscribers {
			delete(b.subscribers, msgCh)
			close(msgCh)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msgCh := <-b.subCh:
			b.subscribers[msgCh] = struct{}{}
		case msgCh := <-b.unsubCh:
			if _, ok := b.subscribers[msgCh]; !ok {
				continue
			}

			delete(b.subscribers, msgCh)
			close(msgCh)
		case msg := <-b.publishCh:
			for msgCh := range b.subscribers {
				if len(msgCh) == eventChSize {
					b.logger.Err(dictionary.ErrChannelOverflowed).Msg(dictionary.ErrChannelOverflowed.Error())

					continue
				}

				msgCh <- msg
			}
		}
	}
}

func (b *Broker) Subscribe() chan []byte {
	msgCh := make(chan []byte, eventChSize)
	b.subCh <- msgCh

	return msgCh
}

func (b *Broker) Unsubscribe(msgCh chan []byte) {
	b.unsubCh <- msgCh
}

func (b *Broker) Publish(msg []byte) {
	b.publishCh <- msg
}
