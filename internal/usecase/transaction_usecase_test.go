package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/querykey"
	"github.com/dinhcongdat866/moneytracker/internal/usecase"
	"github.com/dinhcongdat866/moneytracker/internal/usecase/mocks"
)

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	store := cache.NewStore(cache.WithRetryPolicy(cache.NoRetry()))
	t.Cleanup(store.WaitIdle)
	return store
}

func txOn(id, date string) domain.Transaction {
	d, err := time.Parse(time.RFC3339, date)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		ID:       id,
		Amount:   decimal.NewFromInt(100),
		Type:     domain.TypeExpense,
		Category: domain.Category{ID: "1", Name: "Food & Drink"},
		Date:     d,
	}
}

func page(total int, items ...domain.Transaction) domain.TransactionPage {
	return domain.TransactionPage{Items: items, Page: 1, PageSize: usecase.MonthlyPageSize, Total: total}
}

func pagesOf(total int, items ...domain.Transaction) cache.Pages[domain.TransactionPage] {
	return cache.Pages[domain.TransactionPage]{
		Pages:      []domain.TransactionPage{page(total, items...)},
		PageParams: []int{cache.FirstPage},
	}
}

func monthFilter(month string) domain.TransactionFilter {
	return domain.TransactionFilter{Month: month, Page: 1, Limit: usecase.MonthlyPageSize}
}

func cachedPages(t *testing.T, store *cache.Store, key querykey.Key) cache.Pages[domain.TransactionPage] {
	t.Helper()
	v, ok := cache.GetData[cache.Pages[domain.TransactionPage]](store, key)
	if !ok {
		t.Fatalf("expected %s to be cached", key)
	}
	return v
}

func expenseInput(amount int64, date string) domain.TransactionInput {
	return domain.TransactionInput{
		Amount:       decimal.NewFromInt(amount),
		Type:         domain.TypeExpense,
		CategoryID:   "1",
		CategoryName: "Food & Drink",
		Date:         date,
	}
}

func TestTransactionUseCase_Create_InvalidatesOnlyItsMonth(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api)
	ctx := context.Background()

	febTx := txOn("t1", "2026-02-03T10:00:00Z")
	marTx := txOn("t2", "2026-03-04T10:00:00Z")
	in := expenseInput(150, "2026-02-15T10:00:00.000Z")
	created := in.ToTransaction("01JSERVER")

	api.EXPECT().List(gomock.Any(), monthFilter("2026-02")).Return(page(1, febTx), nil).Times(1)
	api.EXPECT().List(gomock.Any(), monthFilter("2026-03")).Return(page(1, marTx), nil).Times(1)
	api.EXPECT().Create(gomock.Any(), in).Return(created, nil).Times(1)
	api.EXPECT().List(gomock.Any(), monthFilter("2026-02")).Return(page(2, created, febTx), nil).Times(1)

	if _, err := uc.Monthly(ctx, "2026-02"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := uc.Monthly(ctx, "2026-03"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer store.Subscribe(querykey.Transactions.Monthly("2026-02"), func() {})()
	defer store.Subscribe(querykey.Transactions.Monthly("2026-03"), func() {})()

	got, err := uc.CreateMutation().MutateAsync(ctx, in)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != "01JSERVER" {
		t.Fatalf("expected server transaction, got %s", got.ID)
	}

	store.WaitIdle()

	feb := cachedPages(t, store, querykey.Transactions.Monthly("2026-02"))
	if feb.Pages[0].Total != 2 || feb.Pages[0].Items[0].ID != "01JSERVER" {
		t.Fatalf("expected February to be refetched, got %+v", feb.Pages[0])
	}

	mar := cachedPages(t, store, querykey.Transactions.Monthly("2026-03"))
	if mar.Pages[0].Total != 1 || mar.Pages[0].Items[0].ID != "t2" {
		t.Fatalf("expected March to be untouched, got %+v", mar.Pages[0])
	}
}

func TestTransactionUseCase_Create_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	recorder := mocks.NewMockMutationRecorder(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api, usecase.WithMutationRecorder(recorder))

	key := querykey.Transactions.Monthly("2026-02")
	store.SetData(key, pagesOf(1, txOn("t1", "2026-02-03T10:00:00Z")))

	in := expenseInput(150, "2026-02-15T10:00:00.000Z")
	serverErr := &domain.APIError{Kind: domain.KindAPI, Status: 500, Message: "boom"}

	recorder.EXPECT().MutationStarted(usecase.KindCreate)
	recorder.EXPECT().OptimisticPatched(usecase.KindCreate, 1)
	recorder.EXPECT().MutationRolledBack(usecase.KindCreate, 1)
	recorder.EXPECT().MutationSettled(usecase.KindCreate, cache.OutcomeError)

	api.EXPECT().Create(gomock.Any(), in).DoAndReturn(func(context.Context, domain.TransactionInput) (domain.Transaction, error) {
		during := cachedPages(t, store, key)
		if during.Pages[0].Total != 2 || len(during.Pages[0].Items) != 2 {
			t.Errorf("expected optimistic item while pending, got %+v", during.Pages[0])
		}
		if !during.Pages[0].Items[0].IsOptimistic() {
			t.Errorf("expected optimistic item first, got %s", during.Pages[0].Items[0].ID)
		}
		return domain.Transaction{}, serverErr
	})

	hook := uc.CreateMutation()
	_, err := hook.MutateAsync(context.Background(), in)
	if !errors.Is(err, domain.ErrAPI) {
		t.Fatalf("expected api error, got %v", err)
	}
	if !hook.IsError() || hook.IsPending() || hook.Err() == nil {
		t.Fatalf("expected hook to report the failure")
	}

	after := cachedPages(t, store, key)
	if after.Pages[0].Total != 1 || len(after.Pages[0].Items) != 1 || after.Pages[0].Items[0].ID != "t1" {
		t.Fatalf("expected rollback to restore the original page, got %+v", after.Pages[0])
	}
}

func TestTransactionUseCase_Create_PatchTargets(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api)

	existing := txOn("t1", "2026-02-03T10:00:00Z")
	febMonthly := querykey.Transactions.Monthly("2026-02")
	marMonthly := querykey.Transactions.Monthly("2026-03")
	allList := querykey.Transactions.List(querykey.ListFilter{Page: 1, Limit: 20})
	febSecond := querykey.Transactions.List(querykey.ListFilter{Month: "2026-02", Page: 2, Limit: 20})
	marList := querykey.Transactions.List(querykey.ListFilter{Month: "2026-03", Page: 1, Limit: 20})
	recent := querykey.Transactions.Recent()
	detail := querykey.Transactions.Detail("t1")

	store.SetData(febMonthly, pagesOf(1, existing))
	store.SetData(marMonthly, pagesOf(1, txOn("t2", "2026-03-04T10:00:00Z")))
	store.SetData(allList, page(1, existing))
	store.SetData(febSecond, domain.TransactionPage{Items: []domain.Transaction{existing}, Page: 2, Total: 21})
	store.SetData(marList, page(0))
	store.SetData(recent, pagesOf(1, existing))
	store.SetData(detail, existing)

	in := expenseInput(150, "2026-02-15T10:00:00.000Z")
	api.EXPECT().Create(gomock.Any(), in).DoAndReturn(func(context.Context, domain.TransactionInput) (domain.Transaction, error) {
		for _, k := range []querykey.Key{febMonthly, recent} {
			if p := cachedPages(t, store, k); p.Pages[0].Total != 2 || !p.Pages[0].Items[0].IsOptimistic() {
				t.Errorf("expected %s to be patched, got %+v", k, p.Pages[0])
			}
		}
		if p, _ := cache.GetData[domain.TransactionPage](store, allList); p.Total != 2 || !p.Items[0].IsOptimistic() {
			t.Errorf("expected unfiltered list to be patched, got %+v", p)
		}

		if p := cachedPages(t, store, marMonthly); p.Pages[0].Total != 1 {
			t.Errorf("expected other month to be untouched, got %+v", p.Pages[0])
		}
		if p, _ := cache.GetData[domain.TransactionPage](store, febSecond); p.Total != 21 || len(p.Items) != 1 {
			t.Errorf("expected later pages to be untouched, got %+v", p)
		}
		if p, _ := cache.GetData[domain.TransactionPage](store, marList); p.Total != 0 {
			t.Errorf("expected other month list to be untouched, got %+v", p)
		}
		if d, _ := cache.GetData[domain.Transaction](store, detail); d.ID != "t1" {
			t.Errorf("expected detail to be untouched, got %+v", d)
		}
		return in.ToTransaction("01JSERVER"), nil
	})

	if _, err := uc.Create(in).Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTransactionUseCase_Create_RejectsInvalidAmount(t *testing.T) {
	t.Parallel()

	for _, amount := range []int64{0, -5} {
		ctrl := gomock.NewController(t)
		api := mocks.NewMockTransactionsAPI(ctrl)
		store := newStore(t)
		uc := usecase.NewTransactionUseCase(store, api)

		key := querykey.Transactions.Monthly("2026-02")
		store.SetData(key, pagesOf(1, txOn("t1", "2026-02-03T10:00:00Z")))

		hook := uc.CreateMutation()
		_, err := hook.MutateAsync(context.Background(), expenseInput(amount, "2026-02-15T10:00:00.000Z"))

		var apiErr *domain.APIError
		if !errors.As(err, &apiErr) || apiErr.Kind != domain.KindValidation || apiErr.Field != "amount" {
			t.Fatalf("amount %d: expected amount validation error, got %v", amount, err)
		}
		if !hook.IsError() {
			t.Fatalf("amount %d: expected hook to be in error state", amount)
		}
		if p := cachedPages(t, store, key); p.Pages[0].Total != 1 || len(p.Pages[0].Items) != 1 {
			t.Fatalf("amount %d: expected cache to be untouched, got %+v", amount, p.Pages[0])
		}
	}
}

func TestTransactionUseCase_Create_IgnoresCallerCancellation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	uc := usecase.NewTransactionUseCase(newStore(t), api)

	in := expenseInput(150, "2026-02-15T10:00:00.000Z")
	api.EXPECT().Create(gomock.Any(), in).DoAndReturn(func(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
		if ctx.Err() != nil {
			t.Errorf("expected mutation context to survive caller cancellation")
		}
		return in.ToTransaction("01JSERVER"), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := uc.CreateMutation().MutateAsync(ctx, in); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTransactionUseCase_Create_CancelsInFlightReads(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api)

	key := querykey.Transactions.Monthly("2026-02")
	store.SetData(key, pagesOf(1, txOn("t1", "2026-02-03T10:00:00Z")))

	started := make(chan struct{})
	api.EXPECT().List(gomock.Any(), monthFilter("2026-02")).DoAndReturn(func(ctx context.Context, _ domain.TransactionFilter) (domain.TransactionPage, error) {
		close(started)
		<-ctx.Done()
		return page(5, txOn("late", "2026-02-20T10:00:00Z")), nil
	}).MaxTimes(1)

	// Realtime data is stale at once, so this read returns the cached page
	// and revalidates in the background.
	if _, err := uc.Monthly(context.Background(), "2026-02"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	<-started

	in := expenseInput(150, "2026-02-15T10:00:00.000Z")
	api.EXPECT().Create(gomock.Any(), in).Return(in.ToTransaction("01JSERVER"), nil)

	if _, err := uc.Create(in).Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	store.WaitIdle()

	p := cachedPages(t, store, key)
	for _, tx := range p.Pages[0].Items {
		if tx.ID == "late" {
			t.Fatalf("expected cancelled read to be discarded, got %+v", p.Pages[0])
		}
	}
	if p.Pages[0].Total != 2 {
		t.Fatalf("expected optimistic total to survive, got %d", p.Pages[0].Total)
	}
}

func TestTransactionUseCase_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		id        string
		apiErr    error
		wantTotal int
		wantItems int
		during    int
	}{
		{"removes cached item", "t2", nil, 2, 2, 2},
		{"missing id leaves total", "t9", nil, 3, 3, 3},
		{"rolls back on failure", "t2", &domain.APIError{Kind: domain.KindNotFound, Status: 404}, 3, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			api := mocks.NewMockTransactionsAPI(ctrl)
			store := newStore(t)
			uc := usecase.NewTransactionUseCase(store, api)

			key := querykey.Transactions.Monthly("2026-02")
			store.SetData(key, pagesOf(3,
				txOn("t1", "2026-02-03T10:00:00Z"),
				txOn("t2", "2026-02-02T10:00:00Z"),
				txOn("t3", "2026-02-01T10:00:00Z"),
			))

			api.EXPECT().Delete(gomock.Any(), tt.id).DoAndReturn(func(context.Context, string) error {
				if p := cachedPages(t, store, key); p.Pages[0].Total != tt.during {
					t.Errorf("expected total %d while pending, got %d", tt.during, p.Pages[0].Total)
				}
				return tt.apiErr
			})

			_, err := uc.DeleteMutation().MutateAsync(context.Background(), tt.id)
			if (err != nil) != (tt.apiErr != nil) {
				t.Fatalf("unexpected error %v", err)
			}

			p := cachedPages(t, store, key)
			if p.Pages[0].Total != tt.wantTotal || len(p.Pages[0].Items) != tt.wantItems {
				t.Fatalf("expected total %d with %d items, got %+v", tt.wantTotal, tt.wantItems, p.Pages[0])
			}
		})
	}
}

func twoPages(first, second domain.Transaction, total int) cache.Pages[domain.TransactionPage] {
	p2 := page(total, second)
	p2.Page = 2
	return cache.Pages[domain.TransactionPage]{
		Pages:      []domain.TransactionPage{page(total, first), p2},
		PageParams: []int{cache.FirstPage, 2},
	}
}

func TestTransactionUseCase_Delete_OnlyHoldingPageChanges(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api)

	key := querykey.Transactions.Monthly("2026-02")
	store.SetData(key, twoPages(
		txOn("t1", "2026-02-03T10:00:00Z"),
		txOn("t2", "2026-02-02T10:00:00Z"),
		2,
	))

	api.EXPECT().Delete(gomock.Any(), "t2").DoAndReturn(func(context.Context, string) error {
		p := cachedPages(t, store, key)
		if p.Pages[0].Total != 2 || len(p.Pages[0].Items) != 1 {
			t.Errorf("expected first page untouched, got %+v", p.Pages[0])
		}
		if p.Pages[1].Total != 1 || len(p.Pages[1].Items) != 0 {
			t.Errorf("expected second page to drop t2, got %+v", p.Pages[1])
		}
		return nil
	})

	if _, err := uc.Delete("t2").Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTransactionUseCase_Create_CountsOnFirstPageOnly(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api)

	key := querykey.Transactions.Monthly("2026-02")
	store.SetData(key, twoPages(
		txOn("t1", "2026-02-03T10:00:00Z"),
		txOn("t2", "2026-02-02T10:00:00Z"),
		2,
	))

	in := expenseInput(150, "2026-02-15T10:00:00.000Z")
	api.EXPECT().Create(gomock.Any(), in).DoAndReturn(func(context.Context, domain.TransactionInput) (domain.Transaction, error) {
		p := cachedPages(t, store, key)
		if p.Pages[0].Total != 3 || len(p.Pages[0].Items) != 2 {
			t.Errorf("expected optimistic row on first page, got %+v", p.Pages[0])
		}
		if p.Pages[1].Total != 2 || len(p.Pages[1].Items) != 1 {
			t.Errorf("expected second page untouched, got %+v", p.Pages[1])
		}
		return in.ToTransaction("01JSERVER"), nil
	})

	if _, err := uc.Create(in).Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTransactionUseCase_Delete_TotalNeverNegative(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api)

	key := querykey.Transactions.Recent()
	store.SetData(key, pagesOf(0, txOn("t1", "2026-02-03T10:00:00Z")))

	api.EXPECT().Delete(gomock.Any(), "t1").Return(nil)

	if _, err := uc.Delete("t1").Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p := cachedPages(t, store, key); p.Pages[0].Total != 0 || len(p.Pages[0].Items) != 0 {
		t.Fatalf("expected empty page with total 0, got %+v", p.Pages[0])
	}
}

func TestTransactionUseCase_Update_RefreshesPriorAndNewMonth(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api)
	ctx := context.Background()

	original := txOn("t1", "2026-02-03T10:00:00Z")
	store.SetData(querykey.Transactions.Detail("t1"), original)

	api.EXPECT().List(gomock.Any(), monthFilter("2026-02")).Return(page(1, original), nil).Times(2)
	api.EXPECT().List(gomock.Any(), monthFilter("2026-03")).Return(page(0), nil).Times(2)
	api.EXPECT().List(gomock.Any(), monthFilter("2026-04")).Return(page(0), nil).Times(1)

	for _, m := range []string{"2026-02", "2026-03", "2026-04"} {
		if _, err := uc.Monthly(ctx, m); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer store.Subscribe(querykey.Transactions.Monthly(m), func() {})()
	}

	in := expenseInput(100, "2026-03-10T10:00:00.000Z")
	api.EXPECT().Update(gomock.Any(), "t1", in).Return(in.ToTransaction("t1"), nil)

	hook := uc.UpdateMutation()
	got, err := hook.MutateAsync(ctx, usecase.UpdateInput{ID: "t1", Input: in})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Month() != "2026-03" {
		t.Fatalf("expected updated month 2026-03, got %s", got.Month())
	}
	if hook.State() != usecase.MutationSucceeded {
		t.Fatalf("expected success state, got %s", hook.State())
	}

	store.WaitIdle()

	st, _ := store.Get(querykey.Transactions.Detail("t1"))
	if !st.IsStale {
		t.Fatalf("expected detail to be invalidated")
	}
}

func TestTransactionUseCase_Mutate_Background(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	uc := usecase.NewTransactionUseCase(newStore(t), api)

	release := make(chan struct{})
	in := expenseInput(150, "2026-02-15T10:00:00.000Z")
	api.EXPECT().Create(gomock.Any(), in).DoAndReturn(func(context.Context, domain.TransactionInput) (domain.Transaction, error) {
		<-release
		return in.ToTransaction("01JSERVER"), nil
	})

	hook := uc.CreateMutation()
	done := make(chan domain.Transaction, 1)
	hook.Mutate(context.Background(), in, func(tx domain.Transaction, err error) {
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		done <- tx
	})

	if !hook.IsPending() {
		t.Fatalf("expected mutation to be pending")
	}
	close(release)
	hook.Wait()

	if tx := <-done; tx.ID != "01JSERVER" {
		t.Fatalf("expected server id, got %s", tx.ID)
	}
	if hook.IsPending() || hook.IsError() {
		t.Fatalf("expected settled success, got %s", hook.State())
	}
}

func TestInvocation_RunsOnce(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	uc := usecase.NewTransactionUseCase(newStore(t), api)

	api.EXPECT().Delete(gomock.Any(), "t1").Return(nil).Times(1)

	inv := uc.Delete("t1")
	if inv.State() != usecase.MutationIdle {
		t.Fatalf("expected idle, got %s", inv.State())
	}
	if _, err := inv.Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := inv.Run(context.Background()); !errors.Is(err, usecase.ErrInvocationStarted) {
		t.Fatalf("expected ErrInvocationStarted, got %v", err)
	}
	<-inv.Done()
	if inv.State() != usecase.MutationSucceeded {
		t.Fatalf("expected success, got %s", inv.State())
	}
}

func TestTransactionUseCase_Reads(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	store := newStore(t)
	uc := usecase.NewTransactionUseCase(store, api, usecase.WithPageSize(2))
	ctx := context.Background()

	first := domain.TransactionPage{
		Items:   []domain.Transaction{txOn("t1", "2026-02-03T10:00:00Z"), txOn("t2", "2026-02-03T09:00:00Z")},
		Page:    1,
		Total:   3,
		HasMore: true,
	}
	second := domain.TransactionPage{
		Items: []domain.Transaction{txOn("t3", "2026-02-01T10:00:00Z")},
		Page:  2,
		Total: 3,
	}
	api.EXPECT().List(gomock.Any(), domain.TransactionFilter{Month: "2026-02", Page: 1, Limit: 2}).Return(first, nil)
	api.EXPECT().List(gomock.Any(), domain.TransactionFilter{Month: "2026-02", Page: 2, Limit: 2}).Return(second, nil)

	if _, err := uc.Monthly(ctx, "2026-02"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	pages, more, err := uc.MonthlyNextPage(ctx, "2026-02")
	if err != nil || !more {
		t.Fatalf("expected next page, got more=%v err=%v", more, err)
	}
	if len(pages.Pages) != 2 || len(usecase.Flatten(pages)) != 3 {
		t.Fatalf("expected two pages with three items, got %+v", pages)
	}

	pages, more, err = uc.MonthlyNextPage(ctx, "2026-02")
	if err != nil || more || len(pages.Pages) != 2 {
		t.Fatalf("expected no further page, got more=%v err=%v", more, err)
	}

	if _, err := uc.Monthly(ctx, "2026-2"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.Detail(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransactionUseCase_Kanban(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockTransactionsAPI(ctrl)
	uc := usecase.NewTransactionUseCase(newStore(t), api)
	ctx := context.Background()

	rent := txOn("r1", "2026-02-01T10:00:00Z")
	rent.Category = domain.Category{ID: "5", Name: "Rent"}
	rent.Amount = decimal.NewFromInt(900)
	food := txOn("f1", "2026-02-02T10:00:00Z")

	api.EXPECT().List(gomock.Any(), domain.TransactionFilter{Month: "2026-02", Page: 1, Limit: domain.MaxPageSize}).
		Return(domain.TransactionPage{Items: []domain.Transaction{food, rent}, Page: 1, Total: 2}, nil).
		MinTimes(1).
		MaxTimes(2)

	columns, err := uc.Kanban(ctx, domain.KanbanFilter{Month: "2026-02"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(columns) != 2 || columns[0].Category.ID != "5" {
		t.Fatalf("expected rent column first, got %+v", columns)
	}

	col, err := uc.CategoryColumn(ctx, "2026-02", "1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if col.Count != 1 || col.Transactions[0].ID != "f1" {
		t.Fatalf("unexpected column %+v", col)
	}
}

func TestTransactionUseCase_RemoteChangeKeys(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	uc := usecase.NewTransactionUseCase(newStore(t), mocks.NewMockTransactionsAPI(ctrl))

	has := func(keys []querykey.Key, want querykey.Key) bool {
		for _, k := range keys {
			if k.String() == want.String() {
				return true
			}
		}
		return false
	}

	keys := uc.RemoteChangeKeys(domain.NewChangeEvent(domain.EventTransactionUpdated, "t3", time.Now(), "2025-11", "2025-12"))
	for _, want := range []querykey.Key{
		querykey.Transactions.Monthly("2025-11"),
		querykey.Transactions.Monthly("2025-12"),
		querykey.Transactions.MonthlySummary("2025-12"),
		querykey.Transactions.Detail("t3"),
		querykey.Financial.All(),
	} {
		if !has(keys, want) {
			t.Fatalf("expected %s among %v", want, keys)
		}
	}
	if has(keys, querykey.Transactions.Monthly("2026-01")) || has(keys, querykey.Transactions.MonthlyAll()) {
		t.Fatalf("unrelated months must not be refreshed: %v", keys)
	}

	broad := uc.RemoteChangeKeys(domain.ChangeEvent{Type: domain.EventTransactionDeleted})
	if !has(broad, querykey.Transactions.MonthlyAll()) {
		t.Fatalf("expected event without months to refresh every month, got %v", broad)
	}
}
