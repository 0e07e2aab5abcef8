package concurrency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/osse101/Underworld_Go/internal/domain"
	"github.com/osse101/Underworld_Go/internal/logger"
)

// Retry timing for optimistic conflicts
const (
	DefaultRetryAttempts   = 3
	RetryInitialInterval   = 5 * time.Millisecond
	RetryMaxInterval       = 100 * time.Millisecond
	LogMsgRetryingConflict = "Version conflict, retrying"
)

// RetryOnConflict runs op again whenever it fails with domain.ErrConflict,
// at most attempts times in total. Running out of attempts yields
// domain.ErrTransient; any other error is returned unchanged.
func RetryOnConflict[T any](ctx context.Context, attempts int, op func(ctx context.Context) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = DefaultRetryAttempts
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = RetryInitialInterval
	policy.MaxInterval = RetryMaxInterval

	tries := 0
	result, err := backoff.Retry(ctx, func() (T, error) {
		tries++
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return v, backoff.Permanent(err)
		}
		logger.FromContext(ctx).Debug(LogMsgRetryingConflict, "attempt", tries, "error", err)
		return v, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(attempts)))

	if errors.Is(err, domain.ErrConflict) {
		var zero T
		return zero, fmt.Errorf("%w: gave up after %d attempts: %v", domain.ErrTransient, tries, err)
	}
	return result, err
}
