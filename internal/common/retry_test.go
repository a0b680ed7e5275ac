package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return nil
	}, fastRetryOptions())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("transient"), Retryable: true}
	}, fastRetryOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 2, calls)
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	cause := errors.New("schema mismatch")
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return cause
	}, fastRetryOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 1, calls, "a non-retryable error gets no second attempt")
}

func TestWithRetryRateLimitBacksOffToMaxDelay(t *testing.T) {
	opts := fastRetryOptions()
	opts.MaxDelay = 40 * time.Millisecond

	start := time.Now()
	err := WithRetry(context.Background(), func() error {
		return &RetryableError{Err: ErrRateLimit, Retryable: true}
	}, opts)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.GreaterOrEqual(t, elapsed, opts.MaxDelay, "throttled attempts wait the full max delay")
}

func TestWithRetryHonorsCancellation(t *testing.T) {
	opts := fastRetryOptions()
	opts.InitialDelay = time.Minute
	opts.MaxDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := WithRetry(ctx, func() error {
		return &RetryableError{Err: errors.New("transient"), Retryable: true}
	}, opts)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
