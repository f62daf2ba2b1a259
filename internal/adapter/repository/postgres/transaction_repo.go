package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// dbtx is the subset of *pgxpool.Pool the repository uses.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const transactionColumns = `id, amount::text, type, category_id, category_name, category_icon, date, note`

// TransactionRepository implements backend.TransactionRepository.
type TransactionRepository struct {
	db dbtx
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db dbtx) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// List returns one page, newest first, and the filtered total.
func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE ($1 = '' OR month = $1)`,
		filter.Month,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE ($1 = '' OR month = $1)
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`, filter.Month, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	items, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll returns every transaction of month, or all of them when month is empty.
func (r *TransactionRepository) ListAll(ctx context.Context, month string) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE ($1 = '' OR month = $1)
		ORDER BY date DESC, id DESC
	`, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// Get retrieves a transaction by ID.
func (r *TransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

// Create inserts a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return insertTransaction(ctx, r.db, tx, false)
}

// Update overwrites every column of an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transactions
		SET amount = $2::numeric, type = $3, category_id = $4, category_name = $5,
		    category_icon = $6, date = $7, month = $8, note = $9, updated_at = NOW()
		WHERE id = $1
	`,
		tx.ID,
		tx.Amount.String(),
		string(tx.Type),
		tx.Category.ID,
		tx.Category.Name,
		tx.Category.Icon,
		tx.Date.UTC(),
		tx.Month(),
		tx.Note,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func insertTransaction(ctx context.Context, db dbtx, tx *domain.Transaction, skipExisting bool) error {
	query := `
		INSERT INTO transactions (id, amount, type, category_id, category_name, category_icon, date, month, note)
		VALUES ($1, $2::numeric, $3, $4, $5, $6, $7, $8, $9)
	`
	if skipExisting {
		query += ` ON CONFLICT (id) DO NOTHING`
	}

	_, err := db.Exec(ctx, query,
		tx.ID,
		tx.Amount.String(),
		string(tx.Type),
		tx.Category.ID,
		tx.Category.Name,
		tx.Category.Icon,
		tx.Date.UTC(),
		tx.Month(),
		tx.Note,
	)
	if err != nil {
		return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
	}
	return nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	items := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var (
		tx     domain.Transaction
		amount string
		typ    string
		date   time.Time
	)
	if err := row.Scan(
		&tx.ID,
		&amount,
		&typ,
		&tx.Category.ID,
		&tx.Category.Name,
		&tx.Category.Icon,
		&date,
		&tx.Note,
	); err != nil {
		return domain.Transaction{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	tx.Amount = parsed
	tx.Type = domain.TransactionType(typ)
	tx.Date = date.UTC()
	return tx, nil
}
