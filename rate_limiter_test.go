package flickrbridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances its time by the requested duration on every After.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration

	// wakeEarly makes the next After return after half the duration.
	wakeEarly bool
	// block makes After never fire.
	block bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.sleeps = append(c.sleeps, d)
	if c.block {
		return nil
	}
	if c.wakeEarly {
		c.wakeEarly = false
		d /= 2
	}
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestRateLimiterPacing(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(time.Second, 0, clock)
	ctx := context.Background()

	assert.False(t, rl.Info().Paced)

	waited, err := rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	assert.Zero(t, waited)
	assert.Empty(t, clock.sleeps)
	first := rl.Info().LastRequestAt

	waited, err = rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Second, waited)
	second := rl.Info().LastRequestAt
	assert.GreaterOrEqual(t, second.Sub(first), time.Second)

	// a third call 1200ms later goes straight through
	clock.Advance(1200 * time.Millisecond)
	waited, err = rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	assert.Zero(t, waited)
	assert.Equal(t, []time.Duration{time.Second}, clock.sleeps)
	assert.Equal(t, second.Add(1200*time.Millisecond), rl.Info().LastRequestAt)
}

func TestRateLimiterResumesRemainingWait(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(time.Second, 0, clock)
	ctx := context.Background()

	_, err := rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	clock.Advance(200 * time.Millisecond)

	clock.wakeEarly = true
	waited, err := rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{800 * time.Millisecond, 400 * time.Millisecond}, clock.sleeps)
	assert.Equal(t, 800*time.Millisecond, waited)
}

func TestRateLimiterRecordsGrantTime(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(time.Second, 0, clock)
	ctx := context.Background()

	_, err := rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	clock.Advance(5 * time.Second)
	_, err = rl.AwaitNextSlot(ctx)
	require.NoError(t, err)

	info := rl.Info()
	assert.Equal(t, clock.Now(), info.LastRequestAt)
	assert.Equal(t, clock.Now().Add(time.Second), info.NextSlotAt)
	assert.Equal(t, float64(-1), info.QuotaTokens)
}

func TestRateLimiterZeroDelay(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(0, 0, clock)
	for i := 0; i < 5; i++ {
		waited, err := rl.AwaitNextSlot(context.Background())
		require.NoError(t, err)
		assert.Zero(t, waited)
	}
	assert.Empty(t, clock.sleeps)
}

func TestRateLimiterContextCancelled(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(time.Second, 0, clock)

	_, err := rl.AwaitNextSlot(context.Background())
	require.NoError(t, err)
	before := rl.Info().LastRequestAt

	clock.block = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rl.AwaitNextSlot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, rl.Info().LastRequestAt)
}

func TestRateLimiterSetMinDelay(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(time.Second, 0, clock)
	_, err := rl.AwaitNextSlot(context.Background())
	require.NoError(t, err)

	rl.SetMinDelay(0)
	waited, err := rl.AwaitNextSlot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, waited)
}

func TestRateLimiterHourlyQuota(t *testing.T) {
	rl := NewRateLimiter(0, 1, newFakeClock())

	_, err := rl.AwaitNextSlot(context.Background())
	require.NoError(t, err)
	assert.Less(t, rl.Info().QuotaTokens, float64(1))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = rl.AwaitNextSlot(ctx)
	assert.Error(t, err)
}

func TestRateLimiterWallClock(t *testing.T) {
	rl := NewRateLimiter(30*time.Millisecond, 0, nil)
	ctx := context.Background()

	start := time.Now()
	_, err := rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	_, err = rl.AwaitNextSlot(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
