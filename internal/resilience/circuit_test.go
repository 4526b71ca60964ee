package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock lets circuit tests advance time without sleeping.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *testClock) {
	clock := &testClock{t: time.Unix(1000, 0)}
	b := NewBreaker(threshold, cooldown)
	b.now = clock.now
	return b, clock
}

func call(b *Breaker, err error) error {
	_, got := ExecuteVal(context.Background(), b, func(ctx context.Context) (int, error) {
		return 0, err
	})
	return got
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	boom := eris.New("boom")

	for range 3 {
		require.Error(t, call(b, boom))
	}

	err := call(b, nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrCircuitOpen))
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	boom := eris.New("boom")

	require.Error(t, call(b, boom))
	require.Error(t, call(b, boom))
	require.NoError(t, call(b, nil))

	// The streak restarted, so two more failures stay under the threshold.
	require.Error(t, call(b, boom))
	require.Error(t, call(b, boom))
	require.NoError(t, call(b, nil))
}

func TestBreaker_ProbeAfterCooldownCloses(t *testing.T) {
	b, clock := newTestBreaker(2, time.Minute)
	boom := eris.New("boom")

	require.Error(t, call(b, boom))
	require.Error(t, call(b, boom))
	require.True(t, eris.Is(call(b, nil), ErrCircuitOpen))

	clock.advance(time.Minute)
	require.NoError(t, call(b, nil))

	// Closed again: calls pass through freely.
	require.NoError(t, call(b, nil))
}

func TestBreaker_FailedProbeRestartsCooldown(t *testing.T) {
	b, clock := newTestBreaker(2, time.Minute)
	boom := eris.New("boom")

	require.Error(t, call(b, boom))
	require.Error(t, call(b, boom))

	clock.advance(time.Minute)
	require.Error(t, call(b, boom))

	// Probe failed, so the breaker is open for another full cooldown.
	clock.advance(30 * time.Second)
	assert.True(t, eris.Is(call(b, nil), ErrCircuitOpen))

	clock.advance(30 * time.Second)
	require.NoError(t, call(b, nil))
}

func TestBreaker_RejectsWithoutCallingThrough(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute)
	require.Error(t, call(b, eris.New("boom")))

	called := false
	_, err := ExecuteVal(context.Background(), b, func(ctx context.Context) (string, error) {
		called = true
		return "", nil
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrCircuitOpen))
	assert.False(t, called)
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker(0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.cooldown)
}
