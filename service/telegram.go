package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/soulgarden/aori-client/conf"
	"github.com/soulgarden/aori-client/dictionary"
	tb "gopkg.in/tucnak/telebot.v2"
)

const sendDelay = time.Millisecond * 500
const queueSize = 256

// Telegram counts the message limit in characters.
const maxMessageLen = 4096

// Sender is the part of *tb.Bot used here.
type Sender interface {
	Send(to tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error)
}

// Telegram forwards orderbook updates to one chat, one message per sendDelay.
type Telegram struct {
	chatID int64
	bot    Sender
	sendCh chan string
	delay  time.Duration
	logger *zerolog.Logger
}

func NewTelegram(cfg *conf.Aori, bot Sender, logger *zerolog.Logger) *Telegram {
	return &Telegram{
		chatID: cfg.Telegram.ChatID,
		bot:    bot,
		sendCh: make(chan string, queueSize),
		delay:  sendDelay,
		logger: logger,
	}
}

func (s *Telegram) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.sendCh:
			_ = s.send(msg)

			time.Sleep(s.delay)
		}
	}
}

// Forward queues every update from updates until the channel closes or ctx is done.
func (s *Telegram) Forward(ctx context.Context, updates <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-updates:
			if !ok {
				return
			}

			s.SendAsync(string(msg))
		}
	}
}

func (s *Telegram) SendAsync(msg string) {
	if len(s.sendCh) == queueSize {
		s.logger.
			Err(dictionary.ErrChannelOverflowed).
			Str("msg", msg).
			Msg(dictionary.ErrChannelOverflowed.Error())

		return
	}

	s.sendCh <- msg
}

func (s *Telegram) SendSync(msg string) {
	_ = s.send(msg)
}

func (s *Telegram) send(msg string) error {
	msg = truncate(msg, maxMessageLen)

	_, err := s.bot.Send(&tb.Chat{ID: s.chatID}, msg)
	if err != nil {
		s.logger.Err(err).Str("msg", msg).Msg("send message")

		return err
	}

	return nil
}

// truncate keeps the first limit runes of msg.
func truncate(msg string, limit int) string {
	if utf8.RuneCountInString(msg) <= limit {
		return msg
	}

	return string([]rune(msg)[:limit])
}
