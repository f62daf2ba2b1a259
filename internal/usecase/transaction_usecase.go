package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// TransactionUseCase serves transaction reads through the cache and runs
// optimistic transaction mutations against it.
type TransactionUseCase struct {
	store    *cache.Store
	api      TransactionsAPI
	logger   zerolog.Logger
	recorder MutationRecorder
	now      func() time.Time
	pageSize int
}

// TransactionOption configures a TransactionUseCase.
type TransactionOption func(*TransactionUseCase)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) TransactionOption {
	return func(uc *TransactionUseCase) { uc.logger = l }
}

// WithMutationRecorder sets the recorder of mutation events.
func WithMutationRecorder(r MutationRecorder) TransactionOption {
	return func(uc *TransactionUseCase) {
		if r != nil {
			uc.recorder = r
		}
	}
}

// WithClock overrides the clock used for optimistic ids.
func WithClock(now func() time.Time) TransactionOption {
	return func(uc *TransactionUseCase) { uc.now = now }
}

// WithPageSize sets the page size of the monthly and recent feeds.
func WithPageSize(n int) TransactionOption {
	return func(uc *TransactionUseCase) {
		if n > 0 {
			uc.pageSize = n
		}
	}
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(store *cache.Store, api TransactionsAPI, opts ...TransactionOption) *TransactionUseCase {
	uc := &TransactionUseCase{
		store:    store,
		api:      api,
		logger:   zerolog.Nop(),
		recorder: nopMutationRecorder{},
		now:      time.Now,
		pageSize: MonthlyPageSize,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Store returns the cache the use case reads through.
func (uc *TransactionUseCase) Store() *cache.Store {
	return uc.store
}

func nextPage(last domain.TransactionPage) (int, bool) {
	if !last.HasMore {
		return 0, false
	}
	return max(last.Page, cache.FirstPage) + 1, true
}

// MonthlyQuery is the paged feed of one month, newest first.
func (uc *TransactionUseCase) MonthlyQuery(month string) cache.InfiniteQuery[domain.TransactionPage] {
	return cache.InfiniteQuery[domain.TransactionPage]{
		Key:   querykey.Transactions.Monthly(month),
		Class: cache.Realtime,
		FetchPage: func(ctx context.Context, page int) (domain.TransactionPage, error) {
			return uc.api.List(ctx, domain.TransactionFilter{Month: month, Page: page, Limit: uc.pageSize})
		},
		NextPage: nextPage,
	}
}

// RecentQuery is the paged feed of all transactions, newest first.
func (uc *TransactionUseCase) RecentQuery() cache.InfiniteQuery[domain.TransactionPage] {
	return cache.InfiniteQuery[domain.TransactionPage]{
		Key:   querykey.Transactions.Recent(),
		Class: cache.Realtime,
		FetchPage: func(ctx context.Context, page int) (domain.TransactionPage, error) {
			return uc.api.List(ctx, domain.TransactionFilter{Page: page, Limit: uc.pageSize})
		},
		NextPage: nextPage,
	}
}

// ListQuery reads one explicitly addressed page.
func (uc *TransactionUseCase) ListQuery(filter domain.TransactionFilter) cache.Query[domain.TransactionPage] {
	page, limit := domain.ValidatePagination(filter.Page, filter.Limit)
	filter.Page, filter.Limit = page, limit

	return cache.Query[domain.TransactionPage]{
		Key:   querykey.Transactions.List(querykey.ListFilter{Month: filter.Month, Page: page, Limit: limit}),
		Class: cache.Realtime,
		Fn: func(ctx context.Context) (domain.TransactionPage, error) {
			return uc.api.List(ctx, filter)
		},
	}
}

// DetailQuery reads one transaction.
func (uc *TransactionUseCase) DetailQuery(id string) cache.Query[domain.Transaction] {
	return cache.Query[domain.Transaction]{
		Key:   querykey.Transactions.Detail(id),
		Class: cache.Medium,
		Fn: func(ctx context.Context) (domain.Transaction, error) {
			return uc.api.Get(ctx, id)
		},
	}
}

// MonthlySummaryQuery reads the before/after summary of a month.
func (uc *TransactionUseCase) MonthlySummaryQuery(month string) cache.Query[domain.MonthlySummary] {
	return cache.Query[domain.MonthlySummary]{
		Key:   querykey.Transactions.MonthlySummary(month),
		Class: cache.Realtime,
		Fn: func(ctx context.Context) (domain.MonthlySummary, error) {
			return uc.api.MonthlySummary(ctx, month)
		},
	}
}

// MonthTransactionsQuery loads every transaction of a month, the input of
// the category board.
func (uc *TransactionUseCase) MonthTransactionsQuery(month string) cache.Query[[]domain.Transaction] {
	return cache.Query[[]domain.Transaction]{
		Key:   querykey.Transactions.CategoryMonth(month),
		Class: cache.Realtime,
		Fn: func(ctx context.Context) ([]domain.Transaction, error) {
			out := make([]domain.Transaction, 0)
			for page := cache.FirstPage; ; page++ {
				p, err := uc.api.List(ctx, domain.TransactionFilter{Month: month, Page: page, Limit: domain.MaxPageSize})
				if err != nil {
					return nil, err
				}
				out = append(out, p.Items...)
				if !p.HasMore || len(p.Items) == 0 {
					return out, nil
				}
			}
		},
	}
}

// CategoryQuery reads the board column of one category in a month.
func (uc *TransactionUseCase) CategoryQuery(month, categoryID string) cache.Query[domain.KanbanColumn] {
	return cache.Query[domain.KanbanColumn]{
		Key:   querykey.Transactions.Category(month, categoryID),
		Class: cache.Realtime,
		Fn: func(ctx context.Context) (domain.KanbanColumn, error) {
			txs, err := cache.Fetch(ctx, uc.store, uc.MonthTransactionsQuery(month))
			if err != nil {
				return domain.KanbanColumn{}, err
			}
			for _, col := range domain.GroupByCategory(txs, domain.KanbanFilter{}) {
				if col.Category.ID == categoryID {
					return col, nil
				}
			}
			return domain.KanbanColumn{Category: domain.Category{ID: categoryID}}, nil
		},
	}
}

// Monthly returns the loaded pages of a month.
func (uc *TransactionUseCase) Monthly(ctx context.Context, month string) (cache.Pages[domain.TransactionPage], error) {
	if err := domain.ValidateMonth(month); err != nil {
		return cache.Pages[domain.TransactionPage]{}, err
	}
	return cache.FetchInfinite(ctx, uc.store, uc.MonthlyQuery(month))
}

// MonthlyNextPage loads the next page of a month. It reports false when the
// month has no further page.
func (uc *TransactionUseCase) MonthlyNextPage(ctx context.Context, month string) (cache.Pages[domain.TransactionPage], bool, error) {
	if err := domain.ValidateMonth(month); err != nil {
		return cache.Pages[domain.TransactionPage]{}, false, err
	}
	return cache.FetchNextPage(ctx, uc.store, uc.MonthlyQuery(month))
}

// Recent returns the loaded pages of the recent feed.
func (uc *TransactionUseCase) Recent(ctx context.Context) (cache.Pages[domain.TransactionPage], error) {
	return cache.FetchInfinite(ctx, uc.store, uc.RecentQuery())
}

// RecentNextPage loads the next page of the recent feed.
func (uc *TransactionUseCase) RecentNextPage(ctx context.Context) (cache.Pages[domain.TransactionPage], bool, error) {
	return cache.FetchNextPage(ctx, uc.store, uc.RecentQuery())
}

// List reads one page, optionally limited to a month.
func (uc *TransactionUseCase) List(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	if filter.Month != "" {
		if err := domain.ValidateMonth(filter.Month); err != nil {
			return domain.TransactionPage{}, err
		}
	}
	return cache.Fetch(ctx, uc.store, uc.ListQuery(filter))
}

// Detail reads one transaction.
func (uc *TransactionUseCase) Detail(ctx context.Context, id string) (domain.Transaction, error) {
	if err := domain.ValidateTransactionID(id); err != nil {
		return domain.Transaction{}, err
	}
	return cache.Fetch(ctx, uc.store, uc.DetailQuery(id))
}

// MonthlySummary reads the summary of a month.
func (uc *TransactionUseCase) MonthlySummary(ctx context.Context, month string) (domain.MonthlySummary, error) {
	if err := domain.ValidateMonth(month); err != nil {
		return domain.MonthlySummary{}, err
	}
	return cache.Fetch(ctx, uc.store, uc.MonthlySummaryQuery(month))
}

// DailyGroups groups the loaded pages of a month by day.
func (uc *TransactionUseCase) DailyGroups(ctx context.Context, month string) ([]domain.DailyGroup, error) {
	pages, err := uc.Monthly(ctx, month)
	if err != nil {
		return nil, err
	}
	return domain.GroupByDay(Flatten(pages)), nil
}

// Kanban builds the category board of filter.Month.
func (uc *TransactionUseCase) Kanban(ctx context.Context, filter domain.KanbanFilter) ([]domain.KanbanColumn, error) {
	if err := domain.ValidateMonth(filter.Month); err != nil {
		return nil, err
	}
	if filter.Type != "" {
		if err := domain.ValidateTransactionType(string(filter.Type)); err != nil {
			return nil, err
		}
	}
	txs, err := cache.Fetch(ctx, uc.store, uc.MonthTransactionsQuery(filter.Month))
	if err != nil {
		return nil, err
	}
	return domain.GroupByCategory(txs, filter), nil
}

// CategoryColumn reads one column of the category board.
func (uc *TransactionUseCase) CategoryColumn(ctx context.Context, month, categoryID string) (domain.KanbanColumn, error) {
	if err := domain.ValidateMonth(month); err != nil {
		return domain.KanbanColumn{}, err
	}
	return cache.Fetch(ctx, uc.store, uc.CategoryQuery(month, categoryID))
}

// UpdateInput addresses an update mutation.
type UpdateInput struct {
	ID    string
	Input domain.TransactionInput
}

// Create plans a create: the transaction is shown optimistically on the
// first page of every cached feed of its month and on the recent feed
// until the server answers.
func (uc *TransactionUseCase) Create(in domain.TransactionInput) *Invocation {
	var (
		tx    domain.Transaction
		month string
	)

	return newInvocation(uc.store, uc.logger, uc.recorder, plan{
		kind: KindCreate,
		validate: func() error {
			if err := in.Validate(); err != nil {
				return err
			}
			tx = in.ToTransaction(domain.NewOptimisticID(uc.now()))
			month = tx.Month()
			return nil
		},
		optimistic: func(s *cache.Store) int {
			return s.Update(querykey.Transactions.All(), func(k querykey.Key, data any) (any, bool) {
				if !acceptsCreated(k, month) {
					return data, false
				}
				return prependTransaction(data, tx)
			})
		},
		call: func(ctx context.Context) (any, error) {
			return uc.api.Create(ctx, in)
		},
		settled: func(result any, _ error) []querykey.Key {
			months := []string{month}
			if created, ok := result.(domain.Transaction); ok {
				months = append(months, created.Month())
			}
			return uc.settleKeys(months...)
		},
	})
}

// Update plans an update. Nothing is patched optimistically; the prior
// month of the transaction is read from the cache so both months refresh.
func (uc *TransactionUseCase) Update(id string, in domain.TransactionInput) *Invocation {
	var prior string

	return newInvocation(uc.store, uc.logger, uc.recorder, plan{
		kind: KindUpdate,
		validate: func() error {
			if err := domain.ValidateTransactionID(id); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			prior = uc.cachedMonth(id)
			return nil
		},
		call: func(ctx context.Context) (any, error) {
			return uc.api.Update(ctx, id, in)
		},
		settled: func(result any, _ error) []querykey.Key {
			months := []string{prior}
			if date, err := domain.ParseDate(in.Date); err == nil {
				months = append(months, domain.MonthKey(date))
			}
			if updated, ok := result.(domain.Transaction); ok {
				months = append(months, updated.Month())
			}
			return append(uc.settleKeys(months...), querykey.Transactions.Detail(id))
		},
	})
}

// Delete plans a delete: the transaction is removed optimistically from
// every cached paged read.
func (uc *TransactionUseCase) Delete(id string) *Invocation {
	var prior string

	return newInvocation(uc.store, uc.logger, uc.recorder, plan{
		kind: KindDelete,
		validate: func() error {
			if err := domain.ValidateTransactionID(id); err != nil {
				return err
			}
			prior = uc.cachedMonth(id)
			return nil
		},
		optimistic: func(s *cache.Store) int {
			return s.Update(querykey.Transactions.All(), func(k querykey.Key, data any) (any, bool) {
				if k.Scope() == querykey.ScopeDetail {
					return data, false
				}
				return removeTransaction(data, id)
			})
		},
		call: func(ctx context.Context) (any, error) {
			return nil, uc.api.Delete(ctx, id)
		},
		settled: func(any, error) []querykey.Key {
			return append(uc.settleKeys(prior), querykey.Transactions.Detail(id))
		},
	})
}

// CreateMutation returns a hook over Create.
func (uc *TransactionUseCase) CreateMutation() *Mutation[domain.TransactionInput, domain.Transaction] {
	return NewMutation[domain.TransactionInput, domain.Transaction](uc.Create)
}

// UpdateMutation returns a hook over Update.
func (uc *TransactionUseCase) UpdateMutation() *Mutation[UpdateInput, domain.Transaction] {
	return NewMutation[UpdateInput, domain.Transaction](func(in UpdateInput) *Invocation {
		return uc.Update(in.ID, in.Input)
	})
}

// DeleteMutation returns a hook over Delete.
func (uc *TransactionUseCase) DeleteMutation() *Mutation[string, struct{}] {
	return NewMutation[string, struct{}](uc.Delete)
}

// cachedMonth finds the month of a transaction in the cache, preferring
// its detail entry over list entries. It returns "" when id is not cached.
func (uc *TransactionUseCase) cachedMonth(id string) string {
	if tx, ok := cache.GetData[domain.Transaction](uc.store, querykey.Transactions.Detail(id)); ok {
		return tx.Month()
	}
	for _, k := range uc.store.Keys(querykey.Transactions.All()) {
		if k.Scope() == querykey.ScopeDetail {
			continue
		}
		data, ok := uc.store.GetData(k)
		if !ok {
			continue
		}
		if tx, ok := findTransaction(data, id); ok {
			return tx.Month()
		}
	}
	return ""
}

// settleKeys lists the reads a settled mutation touching months refreshes.
// An unknown month ("") refreshes every month.
func (uc *TransactionUseCase) settleKeys(months ...string) []querykey.Key {
	keys := []querykey.Key{
		querykey.Transactions.Recent(),
		querykey.Financial.All(),
		querykey.Analytics.All(),
	}

	seen := make(map[string]bool)
	for _, m := range months {
		if seen[m] {
			continue
		}
		seen[m] = true

		if m == "" {
			keys = append(keys,
				querykey.Transactions.MonthlyAll(),
				querykey.Transactions.MonthlySummaries(),
				querykey.Transactions.Categories(),
				querykey.Transactions.Lists(),
			)
			continue
		}
		keys = append(keys,
			querykey.Transactions.Monthly(m),
			querykey.Transactions.MonthlySummary(m),
			querykey.Transactions.CategoryMonth(m),
		)
	}

	for _, k := range uc.store.Keys(querykey.Transactions.Lists()) {
		f, ok := querykey.ParseList(k)
		if ok && (f.Month == "" || seen[f.Month]) {
			keys = append(keys, k)
		}
	}
	return keys
}

// RemoteChangeKeys lists the reads a write announced by the server makes
// stale. Events without months refresh every month.
func (uc *TransactionUseCase) RemoteChangeKeys(ev domain.ChangeEvent) []querykey.Key {
	months := ev.Months
	if len(months) == 0 {
		months = []string{""}
	}
	keys := uc.settleKeys(months...)
	if ev.TransactionID != "" {
		keys = append(keys, querykey.Transactions.Detail(ev.TransactionID))
	}
	return keys
}

// InvalidateAll marks every cached read stale, e.g. after logout.
func InvalidateAll(store *cache.Store) int {
	n := store.Invalidate(querykey.Transactions.All())
	n += store.Invalidate(querykey.Financial.All())
	n += store.Invalidate(querykey.Analytics.All())
	return n
}
