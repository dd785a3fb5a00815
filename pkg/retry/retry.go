package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Backoff describes a Fibonacci retry policy. The underlying backoff is
// constructed fresh on every Do, so the max duration caps each invocation
// rather than the lifetime of the policy.
type Backoff struct {
	base        time.Duration
	maxDuration time.Duration
}

func RetryableError(err error) error {
	return retry.RetryableError(err)
}

func Fibonacci(base time.Duration) Backoff {
	if base <= 0 {
		base = 1 * time.Second
	}

	return Backoff{
		base: base,
	}
}

func (in Backoff) WithMaxDuration(timeout time.Duration) Backoff {
	in.maxDuration = timeout
	return in
}

func (in Backoff) Do(ctx context.Context, f retry.RetryFunc) error {
	b := retry.NewFibonacci(in.base)
	if in.maxDuration > 0 {
		b = retry.WithMaxDuration(in.maxDuration, b)
	}
	return retry.Do(ctx, b, f)
}
