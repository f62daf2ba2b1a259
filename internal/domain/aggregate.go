package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GroupByDay partitions transactions by UTC calendar day. Groups are ordered
// newest day first and the transactions of each group newest first.
func GroupByDay(txs []Transaction) []DailyGroup {
	groups := make([]DailyGroup, 0)
	index := make(map[string]int)

	for _, tx := range txs {
		day := tx.Date.UTC().Format(time.DateOnly)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DailyGroup{Date: day, DailyTotal: decimal.Zero})
		}
		groups[i].DailyTotal = groups[i].DailyTotal.Add(tx.SignedAmount())
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}

	slices.SortFunc(groups, func(a, b DailyGroup) int {
		return strings.Compare(b.Date, a.Date)
	})
	for _, g := range groups {
		slices.SortStableFunc(g.Transactions, func(a, b Transaction) int {
			return b.Date.Compare(a.Date)
		})
	}

	return groups
}

// SummarizeMonth folds one month of transactions into a summary.
//
// TotalBefore is the month's income and TotalAfter is income minus expense,
// so Difference is always the negated expense. No opening balance carried
// from the previous month is taken into account.
func SummarizeMonth(txs []Transaction, monthLabel string) MonthlySummary {
	income := decimal.Zero
	expense := decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			income = income.Add(tx.Amount)
		case TypeExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	after := income.Sub(expense)
	return MonthlySummary{
		Month:       monthLabel,
		TotalBefore: income,
		TotalAfter:  after,
		Difference:  after.Sub(income),
	}
}

// FilterByMonth keeps the transactions dated within month (YYYY-MM, UTC).
func FilterByMonth(txs []Transaction, month string) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Month() == month {
			out = append(out, tx)
		}
	}
	return out
}

// GroupByCategory builds kanban columns, one per category, ordered by
// descending total. Filter.Month is ignored here; callers pass one month.
func GroupByCategory(txs []Transaction, filter KanbanFilter) []KanbanColumn {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	columns := make([]KanbanColumn, 0)
	index := make(map[string]int)

	for _, tx := range txs {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Note), search) &&
			!strings.Contains(strings.ToLower(tx.Category.Name), search) {
			continue
		}

		i, ok := index[tx.Category.ID]
		if !ok {
			i = len(columns)
			index[tx.Category.ID] = i
			columns = append(columns, KanbanColumn{Category: tx.Category, Total: decimal.Zero})
		}
		columns[i].Transactions = append(columns[i].Transactions, tx)
		columns[i].Total = columns[i].Total.Add(tx.Amount)
		columns[i].Count++
	}

	slices.SortStableFunc(columns, func(a, b KanbanColumn) int {
		return b.Total.Cmp(a.Total)
	})

	return columns
}
