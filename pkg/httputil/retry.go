package httputil

import (
	"context"
	"time"
)

// RetryPolicy controls how outbound requests are retried.
type RetryPolicy struct {
	MaxAttempts int           // total attempts, including the first
	Delay       time.Duration // fixed wait between attempts
	Timeout     time.Duration // per-request timeout; 0 means none
}

// Retry executes fn up to attempts times with a fixed delay between attempts.
// Every error is retried; onRetry, if non-nil, is called before each wait with
// the 1-based number of the failed attempt. Returns nil on the first success,
// the last error once attempts are used up, or ctx.Err() if ctx is cancelled
// while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, onRetry func(attempt int, err error), fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if i < attempts-1 {
			if onRetry != nil {
				onRetry(i+1, lastErr)
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}
