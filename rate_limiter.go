// rate_limiter.go
// ----------------
// This file defines the RateLimiter type, which paces the requests of one
// Session so that two requests never start less than the configured minimum
// delay apart. Optionally it also enforces an hourly request quota with a
// token bucket.
//
// Responsibilities:
// - Remembering when the last request was granted its slot.
// - Blocking the caller until last + minDelay, resuming the wait with the
//   remaining time if it wakes early.
// - Reporting the current pacing state through Info.
package flickrbridge

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock is the time source of the RateLimiter and OAuth timestamps.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RateLimitInfo is a snapshot of a RateLimiter.
type RateLimitInfo struct {
	MinDelay      time.Duration
	Paced         bool // false until the first slot is granted
	LastRequestAt time.Time
	NextSlotAt    time.Time

	// QuotaTokens is the number of requests the hourly quota still allows
	// right now; -1 when no quota is configured.
	QuotaTokens float64
}

type RateLimiter struct {
	mu       sync.Mutex
	clock    Clock
	minDelay time.Duration
	paced    bool
	last     time.Time
	quota    *rate.Limiter
}

// NewRateLimiter returns an idle limiter. hourlyQuota <= 0 disables the quota.
func NewRateLimiter(minDelay time.Duration, hourlyQuota int, clock Clock) *RateLimiter {
	if clock == nil {
		clock = systemClock{}
	}
	r := &RateLimiter{
		clock:    clock,
		minDelay: minDelay,
	}
	if hourlyQuota > 0 {
		r.quota = rate.NewLimiter(rate.Limit(float64(hourlyQuota)/time.Hour.Seconds()), hourlyQuota)
	}
	return r
}

// SetMinDelay changes the pacing interval. Zero disables pacing.
func (r *RateLimiter) SetMinDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.minDelay = d
}

// AwaitNextSlot blocks until the next request may start and records the
// grant time. It returns how long it waited for the pacing gate. ctx bounds
// the wait; on expiry no slot is recorded.
func (r *RateLimiter) AwaitNextSlot(ctx context.Context) (time.Duration, error) {
	if r.quota != nil {
		if err := r.quota.Wait(ctx); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	paced, last, minDelay := r.paced, r.last, r.minDelay
	r.mu.Unlock()

	var waited time.Duration
	if paced && minDelay > 0 {
		deadline := last.Add(minDelay)
		start := r.clock.Now()
		for now := start; now.Before(deadline); now = r.clock.Now() {
			select {
			case <-r.clock.After(deadline.Sub(now)):
			case <-ctx.Done():
				return now.Sub(start), ctx.Err()
			}
		}
		waited = r.clock.Now().Sub(start)
	}

	r.mu.Lock()
	r.last = r.clock.Now()
	r.paced = true
	r.mu.Unlock()
	return waited, nil
}

// Info returns the current pacing state.
func (r *RateLimiter) Info() RateLimitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := RateLimitInfo{
		MinDelay:      r.minDelay,
		Paced:         r.paced,
		LastRequestAt: r.last,
		QuotaTokens:   -1,
	}
	if r.paced {
		info.NextSlotAt = r.last.Add(r.minDelay)
	}
	if r.quota != nil {
		info.QuotaTokens = r.quota.Tokens()
	}
	return info
}
