package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// TokenBucketLimiter adapts rate.Limiter to the RateLimiter interface.
type TokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewTokenBucketLimiter creates a limiter allowing rps requests per second
// with the given burst. A non-positive rps yields nil (no limiting).
func NewTokenBucketLimiter(rps float64, burst int) *TokenBucketLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request is allowed under the rate limit.
func (r *TokenBucketLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
