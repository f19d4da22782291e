package endomondo

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter is an optional local token-bucket guard against tripping
// the API's aggressive request throttling. It is disabled by default; the
// client reacts to server-signaled throttling by surfacing a
// *RateLimitError and leaves proactive pacing to the caller.
type rateLimiter struct {
	limiter    *rate.Limiter
	isLimiting atomic.Bool
}

// newRateLimiter initializes a limiter paced at 60 requests per minute
// with a small burst, the strictest throttle window observed on the API.
// It stays inert until SetLimiting(true).
func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(60.0/60.0), 10),
	}
}

// Wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) Wait(ctx context.Context) error {
	if !rl.isLimiting.Load() {
		return nil
	}
	return rl.limiter.Wait(ctx)
}

// SetLimiting toggles the local throttle.
func (rl *rateLimiter) SetLimiting(enabled bool) {
	rl.isLimiting.Store(enabled)
}

// Backoff computes the wait before a retry attempt using exponential
// backoff with full jitter. The client never sleeps on its own; callers
// reacting to *RateLimitError can use this to implement their policy:
//
//	for attempt := 0; ; attempt++ {
//	    page, err := client.Workout.History(ctx, opts)
//	    var rl *endomondo.RateLimitError
//	    if !errors.As(err, &rl) || attempt == maxRetries {
//	        return page, err
//	    }
//	    time.Sleep(endomondo.Backoff(attempt, time.Second, time.Minute))
//	}
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 {
		max = 60 * time.Second
	}

	// Exponential backoff: base * 2^attempt, capped at max.
	backoff := float64(base) * math.Pow(2, float64(attempt))
	if backoff > float64(max) {
		backoff = float64(max)
	}

	// Full jitter: a uniform draw from [0, backoff).
	return time.Duration(rand.Float64() * backoff)
}
