// Package ratelimit enforces a minimum delay between outbound calls.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces successive Wait returns at least delay apart. The first
// Wait never blocks. Safe for concurrent use.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter with the given minimum inter-call delay. A delay of
// zero or less disables limiting.
func New(delay time.Duration) *Limiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is permitted or ctx is done. When the next
// slot lies beyond ctx's deadline Wait returns immediately with an error
// wrapping context.DeadlineExceeded.
func (l *Limiter) Wait(ctx context.Context) error {
	err := l.limiter.Wait(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("limiter slot after deadline: %w", context.DeadlineExceeded)
	}
	return err
}
