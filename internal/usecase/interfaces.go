package usecase

import (
	"context"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// TransactionsAPI defines the transaction endpoints of the backend.
type TransactionsAPI interface {
	List(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error)
	Get(ctx context.Context, id string) (domain.Transaction, error)
	Create(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error)
	Update(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	MonthlySummary(ctx context.Context, month string) (domain.MonthlySummary, error)
}

// DashboardAPI defines the financial and analytics endpoints of the backend.
type DashboardAPI interface {
	Balance(ctx context.Context) (domain.Balance, error)
	Summary(ctx context.Context, r domain.TimeRange) (domain.RangeSummary, error)
	TopExpenses(ctx context.Context, r domain.TimeRange, limit int) ([]domain.CategoryExpense, error)
}

// MutationRecorder receives mutation lifecycle events for metrics.
type MutationRecorder interface {
	MutationStarted(kind string)
	MutationSettled(kind, outcome string)
	OptimisticPatched(kind string, entries int)
	MutationRolledBack(kind string, entries int)
}

type nopMutationRecorder struct{}

func (nopMutationRecorder) MutationStarted(string) {}
func (nopMutationRecorder) MutationSettled(string, string) {}
func (nopMutationRecorder) OptimisticPatched(string, int) {}
func (nopMutationRecorder) MutationRolledBack(string, int) {}
