package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes worth another attempt.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"
)

// Retrier implements backend.Retrier: transient write failures are retried
// with exponential backoff, anything else fails at once.
type Retrier struct {
	maxRetries uint64
	newBackOff func() *backoff.ExponentialBackOff
	logger     zerolog.Logger
}

// NewRetrier creates a retrier with three retries starting at 50ms.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		maxRetries: 3,
		newBackOff: func() *backoff.ExponentialBackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 50 * time.Millisecond
			b.MaxInterval = time.Second
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
		logger: logger,
	}
}

// Retry runs operation until it succeeds, fails permanently or runs out of
// retries.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)

	attempt := 0
	return backoff.RetryNotify(
		func() error {
			attempt++
			err := operation()
			if err != nil && !isRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		b,
		func(err error, wait time.Duration) {
			r.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("transient database error, retrying")
		},
	)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock, pgErrAdminShutdown, pgErrCannotConnectNow:
			return true
		}
		return false
	}
	return pgconn.SafeToRetry(err)
}
