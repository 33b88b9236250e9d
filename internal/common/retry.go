package common

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const (
	defaultAttempts        = 3
	defaultInitialInterval = 2 * time.Second
	defaultMaxInterval     = 30 * time.Second
)

// A retry policy says how many times an operation is attempted in total
// and how long to wait before the first retry. Waits grow exponentially
type RetryPolicy struct {
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func NewRetryPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts}
}

// Execute the operation until it succeeds, it fails with a non transient error,
// the attempts are exhausted or the context is done.
// The last error seen is returned
func Retry(ctx context.Context, policy RetryPolicy, what string, operation func() error) error {

	attempt := 0
	wrapped := func() error {
		attempt++
		err := operation()
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Msg(fmt.Sprintf("Attempt %d of %d to %s failed, retrying in %s", attempt, policy.attempts(), what, wait))
	}

	return backoff.RetryNotify(wrapped, policy.backoff(ctx), notify)
}

func (policy RetryPolicy) attempts() int {
	if policy.Attempts <= 0 {
		return defaultAttempts
	}
	return policy.Attempts
}

func (policy RetryPolicy) backoff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = defaultInitialInterval
	if policy.InitialInterval > 0 {
		exponential.InitialInterval = policy.InitialInterval
	}
	exponential.MaxInterval = defaultMaxInterval
	if policy.MaxInterval > 0 {
		exponential.MaxInterval = policy.MaxInterval
	}
	// The number of attempts is the only limit
	exponential.MaxElapsedTime = 0

	retries := uint64(policy.attempts() - 1)
	return backoff.WithContext(backoff.WithMaxRetries(exponential, retries), ctx)
}
