// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces; the pgx implementation
// lives in infrastructure/storage/postgres.
package tx

import (
	"context"
	"fmt"
)

// Manager runs a function inside a database transaction.
// Nested calls reuse the transaction already present in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunWithRetry runs fn in a fresh transaction, retrying up to attempts times
// while retryable reports true for the returned error.
func RunWithRetry(
	ctx context.Context,
	m Manager,
	attempts int,
	retryable func(error) bool,
	fn func(ctx context.Context) error,
) error {
	return RunWithRetryFunc(ctx, m, attempts, retryable, nil, fn)
}

// RunWithRetryFunc is RunWithRetry with a hook called between attempts.
// The hook runs after the failed transaction has rolled back, with the
// retryable error; a hook error stops the retries and is returned.
func RunWithRetryFunc(
	ctx context.Context,
	m Manager,
	attempts int,
	retryable func(error) bool,
	beforeRetry func(ctx context.Context, err error) error,
	fn func(ctx context.Context) error,
) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = m.RunInTransaction(ctx, fn)
		if err == nil || !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if beforeRetry != nil && i < attempts-1 {
			if hookErr := beforeRetry(ctx, err); hookErr != nil {
				return fmt.Errorf("%w (before retry: %v)", err, hookErr)
			}
		}
	}
	return err
}

// NoopManager runs fn directly without a transaction. Used in tests.
type NoopManager struct{}

// RunInTransaction implements Manager.
func (NoopManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ReadOnly implements ReadOnlyManager.
func (NoopManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
