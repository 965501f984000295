// Package retry runs boot-time connection attempts with bounded exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

const defaultMaxBackoff = 10 * time.Second

type Policy struct {
	Attempts   int
	Backoff    time.Duration
	MaxBackoff time.Duration
	// Sleep is replaceable in tests; nil waits on a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do calls op until it succeeds, the attempts are exhausted or ctx is done.
// onRetry, when set, observes every failed attempt that will be retried.
func Do(ctx context.Context, policy Policy, op func(ctx context.Context) error, onRetry func(attempt int, err error, wait time.Duration)) error {
	attempts := policy.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	maxBackoff := policy.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	wait := policy.Backoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("gave up after %d attempt(s): %w", attempt-1, lastErr)
			}
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		if onRetry != nil {
			onRetry(attempt, lastErr, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("gave up after %d attempt(s): %w", attempt, lastErr)
		}
		wait *= 2
		if wait > maxBackoff {
			wait = maxBackoff
		}
	}
	return fmt.Errorf("gave up after %d attempt(s): %w", attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
