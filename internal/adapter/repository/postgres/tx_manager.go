package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager runs work inside a database transaction.
type TxManager struct {
	pool pgxPool
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool pgxPool) *TxManager {
	return &TxManager{pool: pool}
}

// WithTx commits when fn succeeds and rolls back otherwise.
func (m *TxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Seed inserts txs in one transaction, leaving existing ids untouched.
func (m *TxManager) Seed(ctx context.Context, txs []domain.Transaction) error {
	return m.WithTx(ctx, func(tx pgx.Tx) error {
		for i := range txs {
			if err := insertTransaction(ctx, tx, &txs[i], true); err != nil {
				return err
			}
		}
		return nil
	})
}
