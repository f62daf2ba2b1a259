package cache

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// RetryPolicy bounds how failed reads are retried. Mutations never go through it.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Retryable       func(error) bool
}

// DefaultRetryPolicy retries transport failures and 5xx responses twice,
// waiting min(1s*2^n, 30s) between attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      2,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
		Retryable:       domain.IsRetryable,
	}
}

// NoRetry never retries.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

// Delay returns the wait before retry n, counting from zero.
func (p RetryPolicy) Delay(n int) time.Duration {
	d := float64(p.InitialInterval)
	for i := 0; i < n; i++ {
		d *= p.multiplier()
		if d >= float64(p.MaxInterval) {
			return p.MaxInterval
		}
	}
	return min(time.Duration(d), p.MaxInterval)
}

func (p RetryPolicy) multiplier() float64 {
	if p.Multiplier <= 0 {
		return 2
	}
	return p.Multiplier
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.multiplier()
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(p.MaxRetries, 0))), ctx)
}

// Do runs fn until it succeeds, fails permanently or exhausts the policy.
// notify is called before every retry.
func (p RetryPolicy) Do(ctx context.Context, fn Fetcher, notify func(err error, wait time.Duration)) (any, error) {
	var out any

	operation := func() error {
		v, err := fn(ctx)
		if err == nil {
			out = v
			return nil
		}
		if ctx.Err() != nil || p.Retryable == nil || !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.RetryNotify(operation, p.backOff(ctx), notify); err != nil {
		return nil, err
	}
	return out, nil
}
