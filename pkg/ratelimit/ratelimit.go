// Package ratelimit paces outbound calls to the InspireHEP API.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval of 1/rps between permitted calls.
// Burst is fixed at 1 so permits can never bunch up.
type Limiter struct {
	lim *rate.Limiter
}

// New creates a Limiter allowing rps calls per second. Non-positive rps
// falls back to 1.
func New(rps float64) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until a call is permitted or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}
