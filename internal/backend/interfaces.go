// Package backend holds the request-side logic of the mock finance API:
// transaction CRUD with pagination, monthly and range summaries, and the
// change feed announced after every committed write.
package backend

import (
	"context"
	"time"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// TransactionRepository persists transactions.
type TransactionRepository interface {
	// List returns one page ordered newest first plus the total match count.
	// An empty filter month matches every transaction.
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int, error)
	// ListAll returns every transaction of month, or all of them when month is empty.
	ListAll(ctx context.Context, month string) ([]domain.Transaction, error)
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	Create(ctx context.Context, tx *domain.Transaction) error
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}

// IDGenerator issues transaction ids.
type IDGenerator interface {
	Generate() string
}

// ChangePublisher fans a committed change out to subscribers.
type ChangePublisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent)
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore remembers responses of keyed write requests.
type IdempotencyStore interface {
	// CheckAndSet reports whether key was seen before and returns the stored
	// response. A nil response claims the key with a placeholder.
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release forgets key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.ChangeEvent) {}

type directRetrier struct{}

func (directRetrier) Retry(_ context.Context, operation func() error) error { return operation() }
