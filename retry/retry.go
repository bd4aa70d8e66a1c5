package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/finsight"
)

// Do executes fn until it succeeds, fails with a non-transient error, or the
// attempts run out. A Retry-After hint carried by a categorized error wins
// over the computed backoff when it is longer. Context cancellation during a
// backoff wait returns the context error.
func Do[T any](ctx context.Context, cfg Config, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt == attempts-1 {
			break
		}

		delay := cfg.Delay(attempt)
		if hint := ai.RetryAfterOf(err); hint > delay {
			delay = hint
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
