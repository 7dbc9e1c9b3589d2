package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmup/swarmup/internal/util/retry"
)

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("throttled")
		}
		return nil
	}, retry.WithAttempts(5), retry.WithInitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), func() error {
		calls++
		return errors.New("still broken")
	}, retry.WithAttempts(3), retry.WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	t.Parallel()

	calls := 0
	base := errors.New("access denied")
	err := retry.Do(context.Background(), func() error {
		calls++
		return retry.Fatal(base)
	}, retry.WithAttempts(5), retry.WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, base)
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, func() error {
		return errors.New("transient")
	}, retry.WithAttempts(3), retry.WithInitialDelay(time.Hour))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFatal_NilPassthrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, retry.Fatal(nil))
	assert.False(t, retry.IsFatal(errors.New("plain")))
	assert.True(t, retry.IsFatal(retry.Fatal(errors.New("x"))))
}
