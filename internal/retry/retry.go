// Package retry runs fallible operations under a bounded, fixed-delay retry policy.
package retry

import (
	"context"
	"time"
)

const (
	DefaultRetries = 3
	DefaultDelay   = time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy describes how many times to retry and how long to wait in between.
// Retries counts extra attempts: Retries=3 means at most 4 calls.
type Policy struct {
	Retries int
	Delay   time.Duration

	// Sleep defaults to a context-aware timer. Tests replace it.
	Sleep SleepFunc
}

// DefaultPolicy returns 3 retries with a fixed 1s delay.
func DefaultPolicy() Policy {
	return Policy{
		Retries: DefaultRetries,
		Delay:   DefaultDelay,
	}
}

// Do calls op until it succeeds or the retry budget is spent.
// The last error from op is returned unchanged.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = contextSleep
	}

	budget := p.Retries
	if budget < 0 {
		budget = 0
	}

	for {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if budget == 0 {
			return v, err
		}
		budget--

		if serr := sleep(ctx, p.Delay); serr != nil {
			var zero T
			return zero, serr
		}
	}
}

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
