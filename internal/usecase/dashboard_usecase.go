package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// DashboardUseCase serves the financial and analytics reads.
type DashboardUseCase struct {
	store *cache.Store
	api   DashboardAPI
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(store *cache.Store, api DashboardAPI) *DashboardUseCase {
	return &DashboardUseCase{store: store, api: api}
}

// Dashboard is everything the overview screen shows.
type Dashboard struct {
	Balance     domain.Balance
	Summary     domain.RangeSummary
	TopExpenses []domain.CategoryExpense
}

// BalanceQuery reads the current balance.
func (uc *DashboardUseCase) BalanceQuery() cache.Query[domain.Balance] {
	return cache.Query[domain.Balance]{
		Key:   querykey.Financial.Balance(),
		Class: cache.Short,
		Fn:    uc.api.Balance,
	}
}

// SummaryQuery reads the spending comparison of a range.
func (uc *DashboardUseCase) SummaryQuery(r domain.TimeRange) cache.Query[domain.RangeSummary] {
	return cache.Query[domain.RangeSummary]{
		Key:   querykey.Financial.Summary(string(r)),
		Class: cache.Short,
		Fn: func(ctx context.Context) (domain.RangeSummary, error) {
			return uc.api.Summary(ctx, r)
		},
	}
}

// TopExpensesQuery reads the highest spending categories of a range.
func (uc *DashboardUseCase) TopExpensesQuery(r domain.TimeRange, limit int) cache.Query[[]domain.CategoryExpense] {
	return cache.Query[[]domain.CategoryExpense]{
		Key:   querykey.Analytics.TopExpenses(string(r), limit),
		Class: cache.Long,
		Fn: func(ctx context.Context) ([]domain.CategoryExpense, error) {
			return uc.api.TopExpenses(ctx, r, limit)
		},
	}
}

// Balance reads the current balance.
func (uc *DashboardUseCase) Balance(ctx context.Context) (domain.Balance, error) {
	return cache.Fetch(ctx, uc.store, uc.BalanceQuery())
}

// Summary reads the spending comparison of a range.
func (uc *DashboardUseCase) Summary(ctx context.Context, r domain.TimeRange) (domain.RangeSummary, error) {
	if err := domain.ValidateTimeRange(string(r)); err != nil {
		return domain.RangeSummary{}, err
	}
	return cache.Fetch(ctx, uc.store, uc.SummaryQuery(r))
}

// TopExpenses reads the highest spending categories of a range.
func (uc *DashboardUseCase) TopExpenses(ctx context.Context, r domain.TimeRange, limit int) ([]domain.CategoryExpense, error) {
	if err := domain.ValidateTimeRange(string(r)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopExpensesLimit
	}
	return cache.Fetch(ctx, uc.store, uc.TopExpensesQuery(r, limit))
}

// Load reads the whole dashboard concurrently.
func (uc *DashboardUseCase) Load(ctx context.Context, r domain.TimeRange) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := uc.Balance(ctx)
		d.Balance = b
		return err
	})
	g.Go(func() error {
		s, err := uc.Summary(ctx, r)
		d.Summary = s
		return err
	})
	g.Go(func() error {
		top, err := uc.TopExpenses(ctx, r, DefaultTopExpensesLimit)
		d.TopExpenses = top
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
