package batch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxBackoffShift caps the adaptive backoff at backoff<<maxBackoffShift.
const maxBackoffShift = 5

// RateLimiter is a token bucket in front of the transport with an adaptive
// pause after transport failures. It runs in addition to the PacingPolicy.
type RateLimiter struct {
	limiter *rate.Limiter

	backoff  time.Duration
	failures int
	until    time.Time
	mu       sync.Mutex
}

// NewRateLimiter creates a limiter allowing rps sends per second with the
// given burst. After each consecutive transport failure the next send waits
// backoff, doubled per failure up to 32x. A zero backoff disables the pause.
func NewRateLimiter(rps float64, burst int, backoff time.Duration) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		backoff: backoff,
	}
}

// Wait blocks until the next send is allowed.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.until
	r.mu.Unlock()

	if wait := time.Until(until); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return r.limiter.Wait(ctx)
}

// Failure records a transport failure and extends the backoff window.
func (r *RateLimiter) Failure() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backoff <= 0 {
		return
	}
	shift := min(r.failures, maxBackoffShift)
	r.failures++
	r.until = time.Now().Add(r.backoff << shift)
}

// Success resets the backoff after a delivered message.
func (r *RateLimiter) Success() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures = 0
	r.until = time.Time{}
}

// Backoff reports the pause currently in effect, zero when none.
func (r *RateLimiter) Backoff() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return max(time.Until(r.until), 0)
}
