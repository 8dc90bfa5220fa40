// internal/scraper/retry.go
package scraper

import (
	"context"
	"fmt"
	"time"

	"oddscrawler/internal/utils"
)

// RetryPolicy retries operations that fail with transient browser or
// network errors. Non-transient errors are returned immediately.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Delay is the wait between attempts.
	Delay  time.Duration
	Logger utils.Logger

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds a policy with the standard three attempts and
// twenty second delay.
func NewRetryPolicy(attempts int, delay time.Duration, logger utils.Logger) *RetryPolicy {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryPolicy{
		Attempts: attempts,
		Delay:    delay,
		Logger:   logger,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do runs fn until it succeeds, fails with a non-transient error, or
// the attempts are used up. Exhaustion is reported as
// ErrRetriesExhausted wrapping the last failure.
func (p *RetryPolicy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return fmt.Errorf("%s: %w", operation, err)
		}

		lastErr = err
		if attempt == p.Attempts {
			break
		}

		p.Logger.Warnf("%s failed transiently (attempt %d/%d), retrying in %v: %v",
			operation, attempt, p.Attempts, p.Delay, err)
		if sleepErr := p.sleep(ctx, p.Delay); sleepErr != nil {
			return fmt.Errorf("%s: %w", operation, sleepErr)
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w (last error: %v)",
		operation, p.Attempts, ErrRetriesExhausted, lastErr)
}
