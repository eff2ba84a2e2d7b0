package client

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy retries idempotent calls a fixed number of times with a constant delay
type RetryPolicy struct {
	MaxRetries uint64
	Delay      time.Duration
}

// DefaultRetryPolicy is three retries two seconds apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Delay: 2 * time.Second}
}

// NoRetry runs the call once
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

// Do runs fn until it succeeds, returns a permanent error, or the retries run out.
// fn marks transient failures with retry.RetryableError; the last failure is returned unwrapped.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(p.MaxRetries, retry.NewConstant(max(p.Delay, time.Millisecond)))
	return retry.Do(ctx, backoff, fn)
}
