package util

import (
	"context"
	"errors"
	"time"
)

// maxRetryDelay caps the doubling backoff between attempts.
const maxRetryDelay = 30 * time.Second

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. RetryWithContext returns the
// wrapped error at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func stopRetrying(err error) bool {
	var perm *permanentError
	return errors.As(err, &perm) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// RetryWithContext runs fn until it succeeds, at most maxTries times
// (minimum one). The wait starts at delay and doubles up to maxRetryDelay.
// Context errors and errors wrapped with Permanent end the loop, as does
// ctx being done. The last error is returned.
func RetryWithContext[T any](ctx context.Context, maxTries int, delay time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	maxTries = max(maxTries, 1)

	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var result T
		if result, err = fn(ctx); err == nil {
			return result, nil
		}
		if stopRetrying(err) {
			var perm *permanentError
			if errors.As(err, &perm) {
				err = perm.err
			}
			return zero, err
		}
		if attempt == maxTries {
			return zero, err
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, maxRetryDelay)
		}
	}
}

// RetryErrWithContext is RetryWithContext for functions without a result.
func RetryErrWithContext(ctx context.Context, maxTries int, delay time.Duration, fn func(context.Context) error) error {
	_, err := RetryWithContext(ctx, maxTries, delay, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
