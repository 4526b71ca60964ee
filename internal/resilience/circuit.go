package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrCircuitOpen is returned when the breaker rejects a call without making it.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// Breaker stops calling a failing service: after a run of consecutive
// failures every call is rejected until a cooldown passes, then a single
// probe call is admitted. A successful probe closes the breaker again; a
// failed one restarts the cooldown. Safe for use from concurrent workers.
type Breaker struct {
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
	probing  bool

	// now is swapped out in tests.
	now func() time.Time
}

// NewBreaker builds a Breaker. Non-positive arguments fall back to 5
// consecutive failures and a 30s cooldown.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// ExecuteVal runs fn through the breaker, returning ErrCircuitOpen without
// calling fn when the breaker is open.
func ExecuteVal[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := b.admit(); err != nil {
		return zero, err
	}
	val, err := fn(ctx)
	b.record(err)
	return val, err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.threshold {
		return nil
	}
	if b.now().Sub(b.openedAt) < b.cooldown {
		return ErrCircuitOpen
	}
	// Cooldown elapsed: admit one probe at a time.
	if b.probing {
		return ErrCircuitOpen
	}
	b.probing = true
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.threshold {
		b.openedAt = b.now()
	}
}
