// Package redis connects to the Redis instance shared by server replicas
// for idempotency keys and change fan-out.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// ClientName is reported to Redis in CLIENT LIST.
const ClientName = "moneytracker"

type clientOptions struct {
	pingAttempts uint64
	pingInterval time.Duration
}

// Option configures NewClient.
type Option func(*clientOptions)

// WithPingAttempts sets how often the initial ping is tried before giving up.
func WithPingAttempts(n uint64, interval time.Duration) Option {
	return func(o *clientOptions) {
		o.pingAttempts = n
		o.pingInterval = interval
	}
}

// NewClient parses redisURL, connects and waits for a successful ping.
func NewClient(ctx context.Context, redisURL string, opts ...Option) (*redis.Client, error) {
	o := clientOptions{pingAttempts: 3, pingInterval: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	redisOpts.ClientName = ClientName

	client := redis.NewClient(redisOpts)

	var b backoff.BackOff = backoff.NewConstantBackOff(o.pingInterval)
	if o.pingAttempts > 1 {
		b = backoff.WithMaxRetries(b, o.pingAttempts-1)
	} else {
		b = &backoff.StopBackOff{}
	}

	if err := backoff.Retry(func() error {
		return client.Ping(ctx).Err()
	}, backoff.WithContext(b, ctx)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
