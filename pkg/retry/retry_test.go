package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/intunerator/intunerator/pkg/retry"
)

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("retries until the function succeeds", func(t *testing.T) {
		attempts := 0

		err := retry.Fibonacci(1*time.Millisecond).Do(ctx, func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return retry.RetryableError(errors.New("throttled"))
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("non-retryable errors are returned immediately", func(t *testing.T) {
		attempts := 0

		err := retry.Fibonacci(1*time.Millisecond).Do(ctx, func(ctx context.Context) error {
			attempts++
			return errors.New("fatal")
		})

		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("max duration caps each invocation independently", func(t *testing.T) {
		backoff := retry.Fibonacci(1 * time.Millisecond).WithMaxDuration(30 * time.Millisecond)

		for i := 0; i < 2; i++ {
			attempts := 0

			err := backoff.Do(ctx, func(ctx context.Context) error {
				attempts++
				if attempts < 3 {
					return retry.RetryableError(errors.New("throttled"))
				}
				return nil
			})

			assert.NoError(t, err)
			assert.Equal(t, 3, attempts)

			// Outlive the max duration between invocations. A policy anchored
			// at construction time would refuse to retry on the next pass.
			time.Sleep(40 * time.Millisecond)
		}
	})
}
