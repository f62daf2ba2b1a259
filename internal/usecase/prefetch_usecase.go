package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// PrefetchUseCase warms reads the user is likely to open next.
type PrefetchUseCase struct {
	transactions *TransactionUseCase
	dashboard    *DashboardUseCase
	interval     time.Duration
	now          func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

// NewPrefetchUseCase creates a new PrefetchUseCase. Prefetches of the same
// month are skipped while less than interval apart.
func NewPrefetchUseCase(transactions *TransactionUseCase, dashboard *DashboardUseCase, interval time.Duration) *PrefetchUseCase {
	return &PrefetchUseCase{
		transactions: transactions,
		dashboard:    dashboard,
		interval:     interval,
		now:          time.Now,
		last:         make(map[string]time.Time),
	}
}

func (uc *PrefetchUseCase) throttled(key string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	if last, ok := uc.last[key]; ok && now.Sub(last) < uc.interval {
		return true
	}
	uc.last[key] = now
	return false
}

// PrefetchNextMonth warms the first page and the summary of the month after
// month. It reports whether a prefetch was attempted.
func (uc *PrefetchUseCase) PrefetchNextMonth(ctx context.Context, month string) (bool, error) {
	next, err := domain.NextMonth(month)
	if err != nil {
		return false, err
	}
	if uc.throttled(next) {
		return false, nil
	}

	store := uc.transactions.Store()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cache.PrefetchInfinite(ctx, store, uc.transactions.MonthlyQuery(next))
	})
	g.Go(func() error {
		return cache.Prefetch(ctx, store, uc.transactions.MonthlySummaryQuery(next))
	})
	return true, g.Wait()
}

// PrefetchDetails warms the detail reads of ids that are not cached yet and
// returns how many were fetched.
func (uc *PrefetchUseCase) PrefetchDetails(ctx context.Context, ids []string) (int, error) {
	store := uc.transactions.Store()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchConcurrency)

	n := 0
	for _, id := range ids {
		if domain.IsOptimisticID(id) {
			continue
		}
		if _, ok := store.GetData(querykey.Transactions.Detail(id)); ok {
			continue
		}
		n++
		q := uc.transactions.DetailQuery(id)
		g.Go(func() error {
			return cache.Prefetch(ctx, store, q)
		})
	}
	return n, g.Wait()
}

// PrefetchRange warms the summary and top expenses of a range.
func (uc *PrefetchUseCase) PrefetchRange(ctx context.Context, r domain.TimeRange) error {
	if err := domain.ValidateTimeRange(string(r)); err != nil {
		return err
	}

	store := uc.dashboard.store
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cache.Prefetch(ctx, store, uc.dashboard.SummaryQuery(r))
	})
	g.Go(func() error {
		return cache.Prefetch(ctx, store, uc.dashboard.TopExpensesQuery(r, DefaultTopExpensesLimit))
	})
	return g.Wait()
}
