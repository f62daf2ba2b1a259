// Package memory is the default in-process store of the mock backend.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// TransactionRepository keeps transactions in a map guarded by a RWMutex.
type TransactionRepository struct {
	mu  sync.RWMutex
	txs map[string]domain.Transaction
}

// NewTransactionRepository creates a repository holding seed.
func NewTransactionRepository(seed []domain.Transaction) *TransactionRepository {
	r := &TransactionRepository{txs: make(map[string]domain.Transaction, len(seed))}
	for _, tx := range seed {
		r.txs[tx.ID] = tx
	}
	return r
}

// List returns one page, newest first.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	all, err := r.ListAll(ctx, filter.Month)
	if err != nil {
		return nil, 0, err
	}

	total := len(all)
	start := (filter.Page - 1) * filter.Limit
	if start < 0 || start >= total {
		return []domain.Transaction{}, total, nil
	}
	end := min(start+filter.Limit, total)
	return all[start:end], total, nil
}

// ListAll returns the transactions of month (all when empty), newest first.
func (r *TransactionRepository) ListAll(ctx context.Context, month string) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]domain.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		if month == "" || tx.Month() == month {
			out = append(out, tx)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out, nil
}

// Get returns a copy of one transaction.
func (r *TransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

// Create inserts tx.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.txs[tx.ID] = *tx
	return nil
}

// Update replaces an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[tx.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	r.txs[tx.ID] = *tx
	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.txs, id)
	return nil
}
