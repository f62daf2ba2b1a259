package backend

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// Currency of every balance the mock backend reports.
const Currency = "USD"

// DefaultTopExpenses is the row count when the caller sends no limit.
const DefaultTopExpenses = 3

// DashboardService computes the dashboard figures from stored transactions.
// Windows are anchored at the newest transaction so seeded data stays
// meaningful regardless of the wall clock.
type DashboardService struct {
	repo TransactionRepository
	now  func() time.Time
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(repo TransactionRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// Balance is income minus expense over all transactions.
func (s *DashboardService) Balance(ctx context.Context) (domain.Balance, error) {
	txs, err := s.repo.ListAll(ctx, "")
	if err != nil {
		return domain.Balance{}, fmt.Errorf("load balance: %w", err)
	}

	total := decimal.Zero
	for i := range txs {
		total = total.Add(txs[i].SignedAmount())
	}
	return domain.Balance{Amount: total, Currency: Currency}, nil
}

// Summary compares total expense of the current and previous window.
func (s *DashboardService) Summary(ctx context.Context, r domain.TimeRange) (domain.RangeSummary, error) {
	if err := domain.ValidateTimeRange(string(r)); err != nil {
		return domain.RangeSummary{}, err
	}

	txs, err := s.repo.ListAll(ctx, "")
	if err != nil {
		return domain.RangeSummary{}, fmt.Errorf("load summary: %w", err)
	}

	cur, prev := windows(r, s.anchor(txs))
	return domain.RangeSummary{
		Current:  expenseIn(txs, cur),
		Previous: expenseIn(txs, prev),
	}, nil
}

// TopExpenses ranks expense categories of the current window. Ratio is the
// category's share of the window's total expense.
func (s *DashboardService) TopExpenses(ctx context.Context, r domain.TimeRange, limit int) ([]domain.CategoryExpense, error) {
	if err := domain.ValidateTimeRange(string(r)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopExpenses
	}

	txs, err := s.repo.ListAll(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load top expenses: %w", err)
	}

	cur, _ := windows(r, s.anchor(txs))
	rows := make([]domain.CategoryExpense, 0)
	index := make(map[string]int)
	total := decimal.Zero

	for i := range txs {
		tx := &txs[i]
		if tx.Type != domain.TypeExpense || !cur.contains(tx.Date) {
			continue
		}
		j, ok := index[tx.Category.ID]
		if !ok {
			j = len(rows)
			index[tx.Category.ID] = j
			rows = append(rows, domain.CategoryExpense{
				CategoryID:   tx.Category.ID,
				CategoryName: tx.Category.Name,
				Expense:      decimal.Zero,
			})
		}
		rows[j].Expense = rows[j].Expense.Add(tx.Amount)
		total = total.Add(tx.Amount)
	}

	slices.SortStableFunc(rows, func(a, b domain.CategoryExpense) int {
		return b.Expense.Cmp(a.Expense)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		if total.IsPositive() {
			rows[i].Ratio = rows[i].Expense.DivRound(total, 4)
		} else {
			rows[i].Ratio = decimal.Zero
		}
	}
	return rows, nil
}

func (s *DashboardService) anchor(txs []domain.Transaction) time.Time {
	var latest time.Time
	for i := range txs {
		if txs[i].Date.After(latest) {
			latest = txs[i].Date
		}
	}
	if latest.IsZero() {
		return s.now().UTC()
	}
	return latest.UTC()
}

// window is the half-open interval [from, to).
type window struct {
	from, to time.Time
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.from) && t.Before(w.to)
}

// windows returns the current and previous window around anchor: the
// trailing seven days for a week, the calendar month for a month.
func windows(r domain.TimeRange, anchor time.Time) (window, window) {
	if r == domain.RangeWeek {
		end := time.Date(anchor.Year(), anchor.Month(), anchor.Day()+1, 0, 0, 0, 0, time.UTC)
		start := end.AddDate(0, 0, -7)
		return window{start, end}, window{start.AddDate(0, 0, -7), start}
	}
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	return window{start, start.AddDate(0, 1, 0)}, window{start.AddDate(0, -1, 0), start}
}

func expenseIn(txs []domain.Transaction, w window) decimal.Decimal {
	sum := decimal.Zero
	for i := range txs {
		if txs[i].Type == domain.TypeExpense && w.contains(txs[i].Date) {
			sum = sum.Add(txs[i].Amount)
		}
	}
	return sum
}
