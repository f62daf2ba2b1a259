package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// Option configures a TransactionService.
type Option func(*TransactionService)

// WithPublisher announces committed writes through p.
func WithPublisher(p ChangePublisher) Option {
	return func(s *TransactionService) { s.publisher = p }
}

// WithRetrier wraps repository writes in r.
func WithRetrier(r Retrier) Option {
	return func(s *TransactionService) { s.retrier = r }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *TransactionService) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TransactionService) { s.now = now }
}

// TransactionService implements the transaction endpoints.
type TransactionService struct {
	repo      TransactionRepository
	ids       IDGenerator
	publisher ChangePublisher
	retrier   Retrier
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTransactionService creates a TransactionService.
func NewTransactionService(repo TransactionRepository, ids IDGenerator, opts ...Option) *TransactionService {
	s := &TransactionService{
		repo:      repo,
		ids:       ids,
		publisher: nopPublisher{},
		retrier:   directRetrier{},
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of transactions, newest first. Filtering by month
// attaches that month's summary to the page.
func (s *TransactionService) List(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionPage, error) {
	if filter.Month != "" {
		if err := domain.ValidateMonth(filter.Month); err != nil {
			return nil, err
		}
	}
	filter.Page, filter.Limit = domain.ValidatePagination(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	page := &domain.TransactionPage{
		Items:    items,
		Page:     filter.Page,
		PageSize: filter.Limit,
		Total:    total,
		HasMore:  filter.Page*filter.Limit < total,
	}
	if filter.Month != "" {
		summary, err := s.MonthlySummary(ctx, filter.Month)
		if err != nil {
			return nil, err
		}
		page.Summary = &summary
	}
	return page, nil
}

// Get returns one transaction.
func (s *TransactionService) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	if err := domain.ValidateTransactionID(id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create stores a new transaction under a fresh server id.
func (s *TransactionService) Create(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx := in.ToTransaction(s.ids.Generate())
	if err := s.retrier.Retry(ctx, func() error {
		return s.repo.Create(ctx, &tx)
	}); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.Info().
		Str("transaction_id", tx.ID).
		Str("month", tx.Month()).
		Msg("transaction created")
	s.publisher.Publish(ctx, domain.NewChangeEvent(domain.EventTransactionCreated, tx.ID, s.now(), tx.Month()))

	return &tx, nil
}

// Update replaces an existing transaction. Moving it to another month
// announces both months.
func (s *TransactionService) Update(ctx context.Context, id string, in domain.TransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateTransactionID(id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	prior, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tx := in.ToTransaction(id)
	if err := s.retrier.Retry(ctx, func() error {
		return s.repo.Update(ctx, &tx)
	}); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	s.logger.Info().
		Str("transaction_id", id).
		Str("from_month", prior.Month()).
		Str("to_month", tx.Month()).
		Msg("transaction updated")
	s.publisher.Publish(ctx, domain.NewChangeEvent(domain.EventTransactionUpdated, id, s.now(), prior.Month(), tx.Month()))

	return &tx, nil
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateTransactionID(id); err != nil {
		return err
	}

	prior, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.retrier.Retry(ctx, func() error {
		return s.repo.Delete(ctx, id)
	}); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.logger.Info().Str("transaction_id", id).Msg("transaction deleted")
	s.publisher.Publish(ctx, domain.NewChangeEvent(domain.EventTransactionDeleted, id, s.now(), prior.Month()))

	return nil
}

// MonthlySummary folds a month's transactions into before/after totals.
func (s *TransactionService) MonthlySummary(ctx context.Context, month string) (domain.MonthlySummary, error) {
	if month == "" || domain.ValidateMonth(month) != nil {
		return domain.MonthlySummary{}, domain.NewValidationError("month", "Month is required in format YYYY-MM")
	}

	txs, err := s.repo.ListAll(ctx, month)
	if err != nil {
		return domain.MonthlySummary{}, fmt.Errorf("summarize month: %w", err)
	}
	return domain.SummarizeMonth(txs, domain.MonthLabel(month)), nil
}
