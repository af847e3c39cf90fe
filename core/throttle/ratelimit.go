package throttle

import (
	"sync"
	"time"
)

// RateLimiter caps the number of permitted calls within a rolling window.
// Denial is immediate, callers fall back instead of waiting.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    Clock

	mu    sync.Mutex
	calls []time.Time // ascending
}

// NewRateLimiter creates a limiter allowing limit calls per window
func NewRateLimiter(limit int, window time.Duration, now Clock) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    orNow(now),
	}
}

// TryAcquire purges timestamps older than the window and grants the call if
// fewer than limit calls remain, recording it.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.purge(now)

	if len(r.calls) >= r.limit {
		return false
	}

	r.calls = append(r.calls, now)
	return true
}

// Remaining returns how many calls would currently be granted
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purge(r.now())
	if remaining := r.limit - len(r.calls); remaining > 0 {
		return remaining
	}
	return 0
}

func (r *RateLimiter) purge(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.calls) && !r.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.calls = append(r.calls[:0], r.calls[i:]...)
	}
}
