package arxivar

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultRetryAfter is the backoff applied to a 429 without Retry-After.
const defaultRetryAfter = 30 * time.Second

// RateLimiter throttles requests to the service.
// It uses a token bucket with an extra backoff window after 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter. A non-positive rps disables throttling.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff delays subsequent requests after a 429 response.
func (r *RateLimiter) Backoff(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(retryAfter)
}
