// Package retry implements the retry policy for rate-limited transport calls
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RateLimitError signals that the transport throttled the operation and
// mandated a wait before it may be attempted again.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// NewRateLimitError creates a RateLimitError with the mandated wait
func NewRateLimitError(retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{RetryAfter: retryAfter}
}

// Operation is one logical transport operation, restarted from scratch on
// every retry. It must be idempotent with respect to re-invocation.
type Operation func(ctx context.Context) error

// Do runs op, and whenever it fails with a RateLimitError waits the mandated
// duration plus one second and re-invokes it. Retries are unbounded; the
// caller bounds the total time through ctx.
func Do(ctx context.Context, logger zerolog.Logger, op Operation) error {
	for {
		err := op(ctx)

		var rateLimited *RateLimitError
		if !errors.As(err, &rateLimited) {
			return err
		}

		wait := rateLimited.RetryAfter + time.Second
		logger.Warn().
			Dur("wait", wait).
			Msg("Transport rate limited, delaying retry")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
