package graphiti

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// retry runs fn up to attempts times with exponential backoff starting at
// base. Context cancellation stops immediately; every other error is
// retried, since FalkorDB under concurrent load fails transiently in ways
// that are not distinguishable from the error text.
func retry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := base

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
