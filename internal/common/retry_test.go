package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryPolicy{Attempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

func TestRetryTransientUntilSuccess(t *testing.T) {

	calls := 0
	err := Retry(context.Background(), fastRetry, "test", func() error {
		calls++
		if calls < 3 {
			return Transient(errors.New("try again"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnFatalError(t *testing.T) {

	fatal := errors.New("forbidden")
	calls := 0
	err := Retry(context.Background(), fastRetry, "test", func() error {
		calls++
		return fatal
	})
	assert.ErrorIs(t, err, fatal)
	assert.False(t, IsTransient(err))
	assert.Equal(t, 1, calls)
}

func TestRetryBoundedAttempts(t *testing.T) {

	calls := 0
	err := Retry(context.Background(), fastRetry, "test", func() error {
		calls++
		return Transient(errors.New("unavailable"))
	})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, calls)
}

func TestRetryHonoursContext(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{Attempts: 5, InitialInterval: time.Hour}
	calls := 0
	err := Retry(ctx, policy, "test", func() error {
		calls++
		cancel()
		return Transient(errors.New("unavailable"))
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestStatusError(t *testing.T) {
	err := errors.New("status")
	assert.True(t, IsTransient(StatusError(RATE_LIMIT_EXCEEDED, err)))
	assert.True(t, IsTransient(StatusError(BAD_GATEWAY, err)))
	assert.False(t, IsTransient(StatusError(FORBIDDEN, err)))
	assert.False(t, IsTransient(StatusError(DATA_NOT_FOUND, err)))
	assert.Nil(t, Transient(nil))
}

func TestSleep(t *testing.T) {

	require.NoError(t, Sleep(context.Background(), time.Millisecond))
	require.NoError(t, Sleep(context.Background(), -time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
