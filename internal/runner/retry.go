package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scalper_bot/pkg/logger"
)

// ErrCollaboratorUnavailable marks an exchange or metrics call that exhausted
// its retries. The iteration skips and retries later; never fatal.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// retryCall runs fn up to maxRetries+1 times with a fixed delay between
// attempts. No backoff, no jitter.
func retryCall[T any](ctx context.Context, maxRetries int, delay time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		logger.Warn("%s failed (attempt %d/%d): %v", op, attempt+1, maxRetries+1, err)
	}
	return zero, fmt.Errorf("%s: %w: %w", op, ErrCollaboratorUnavailable, lastErr)
}
