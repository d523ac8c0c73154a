package ingest

import (
	"context"
	"time"
)

type (
	// operation to retry
	operation func(ctx context.Context) error

	// isRetriableFunc decides whether an error is worth another attempt
	isRetriableFunc func(err error) bool
)

// retryPolicy doubles the wait after every failed attempt
type retryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

func (p retryPolicy) interval(attempt int) time.Duration {
	return p.InitialInterval * time.Duration(1<<attempt)
}

// retry runs op until it succeeds, fails with a non-retriable error, or the
// attempts run out. The last error is returned.
func retry(ctx context.Context, op operation, policy retryPolicy, isRetriable isRetriableFunc, onRetry func(attempt int, wait time.Duration, err error)) error {
	var err error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = op(ctx); err == nil {
			return nil
		}
		if !isRetriable(err) || attempt == policy.MaxAttempts-1 {
			return err
		}

		wait := policy.interval(attempt)
		if onRetry != nil {
			onRetry(attempt+1, wait, err)
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	return err
}
