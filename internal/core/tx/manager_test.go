package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errRetry = errors.New("retry me")

func TestRunWithRetry_StopsOnSuccess(t *testing.T) {
	calls := 0
	err := RunWithRetry(context.Background(), NoopManager{}, 3,
		func(err error) bool { return errors.Is(err, errRetry) },
		func(ctx context.Context) error {
			calls++
			if calls < 2 {
				return errRetry
			}
			return nil
		})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRunWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := RunWithRetry(context.Background(), NoopManager{}, 3,
		func(err error) bool { return true },
		func(ctx context.Context) error {
			calls++
			return errRetry
		})

	assert.ErrorIs(t, err, errRetry)
	assert.Equal(t, 3, calls)
}

func TestRunWithRetry_NonRetryable(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := RunWithRetry(context.Background(), NoopManager{}, 5,
		func(err error) bool { return errors.Is(err, errRetry) },
		func(ctx context.Context) error {
			calls++
			return boom
		})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetryFunc_HookBetweenAttempts(t *testing.T) {
	var trail []string
	calls := 0
	err := RunWithRetryFunc(context.Background(), NoopManager{}, 3,
		func(err error) bool { return errors.Is(err, errRetry) },
		func(ctx context.Context, err error) error {
			trail = append(trail, "hook")
			return nil
		},
		func(ctx context.Context) error {
			calls++
			trail = append(trail, "run")
			return errRetry
		})

	assert.ErrorIs(t, err, errRetry)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"run", "hook", "run", "hook", "run"}, trail)
}

func TestRunWithRetryFunc_HookErrorStops(t *testing.T) {
	calls := 0
	hookErr := errors.New("counter down")
	err := RunWithRetryFunc(context.Background(), NoopManager{}, 3,
		func(err error) bool { return true },
		func(ctx context.Context, err error) error { return hookErr },
		func(ctx context.Context) error {
			calls++
			return errRetry
		})

	assert.ErrorIs(t, err, errRetry)
	assert.Contains(t, err.Error(), "counter down")
	assert.Equal(t, 1, calls)
}
