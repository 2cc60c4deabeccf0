package client

import (
	"math/rand"
	"sync"
	"time"
)

const (
	defaultJitter = 0.2
	maxShift      = 30
)

// Backoff yields exponentially growing delays capped at Max, each spread by ±Jitter.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64

	mu      sync.Mutex
	attempt int
	rnd     *rand.Rand
}

func NewBackoff(base, max time.Duration) *Backoff {
	return &Backoff{
		Base:   base,
		Max:    max,
		Jitter: defaultJitter,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())), //nolint: gosec
	}
}

func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	shift := b.attempt
	if shift > maxShift {
		shift = maxShift
	}

	b.attempt++

	d := b.Base << uint(shift)
	if d <= 0 || (b.Max > 0 && d > b.Max) {
		d = b.Max
	}

	if b.Jitter <= 0 || b.rnd == nil {
		return d
	}

	delta := float64(d) * b.Jitter

	return time.Duration(float64(d) - delta + b.rnd.Float64()*2*delta)
}

func (b *Backoff) Reset() {
	b.mu.Lock()
	b.attempt = 0
	b.mu.Unlock()
}
