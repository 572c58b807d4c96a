// Package ratelimit provides the process-wide outbound limiter that keeps
// calls to the SEC EDGAR API under its fair-access threshold.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter caps outbound requests to at most N per second across every
// caller in the process, regardless of how many goroutines are fetching
// concurrently.
type Limiter struct {
	rl *rate.Limiter
}

// New creates a Limiter allowing reqPerSec requests per second, with a
// burst equal to reqPerSec (one second's worth of headroom).
func New(reqPerSec float64) *Limiter {
	burst := int(reqPerSec)
	if burst < 1 {
		burst = 1
	}
	return &Limiter{rl: rate.NewLimiter(rate.Limit(reqPerSec), burst)}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}
