package querykey

import (
	"strconv"
)

// Scope tokens under the transactions root.
const (
	ScopeList     = "list"
	ScopeMonthly  = "monthly"
	ScopeSummary  = "summary"
	ScopeRecent   = "recent"
	ScopeDetail   = "detail"
	ScopeCategory = "category"
)

// Scope tokens under the financial and analytics roots.
const (
	ScopeBalance     = "balance"
	ScopeTopExpenses = "mostSpentExpenses"
)

// ListFilter parameterizes a filtered transaction listing. All three fields
// always occupy a position in the key, so an unset month is the empty token.
type ListFilter struct {
	Month string
	Page  int
	Limit int
}

type transactionKeys struct{}

// Transactions builds keys under the transactions root.
var Transactions transactionKeys

func (transactionKeys) All() Key {
	return Key{RootTransactions}
}

func (t transactionKeys) Lists() Key {
	return extend(t.All(), ScopeList)
}

func (t transactionKeys) List(f ListFilter) Key {
	return extend(t.Lists(), f.Month, strconv.Itoa(f.Page), strconv.Itoa(f.Limit))
}

func (t transactionKeys) MonthlyAll() Key {
	return extend(t.All(), ScopeMonthly)
}

// Monthly is the paged bucket of one YYYY-MM month.
func (t transactionKeys) Monthly(month string) Key {
	return extend(t.MonthlyAll(), month)
}

func (t transactionKeys) MonthlySummaries() Key {
	return extend(t.All(), ScopeSummary)
}

func (t transactionKeys) MonthlySummary(month string) Key {
	return extend(t.MonthlySummaries(), month)
}

// Recent is the dashboard feed of latest transactions.
func (t transactionKeys) Recent() Key {
	return extend(t.All(), ScopeRecent)
}

func (t transactionKeys) Details() Key {
	return extend(t.All(), ScopeDetail)
}

func (t transactionKeys) Detail(id string) Key {
	return extend(t.Details(), id)
}

func (t transactionKeys) Categories() Key {
	return extend(t.All(), ScopeCategory)
}

// CategoryMonth holds the kanban board of one month and prefixes its
// per-category buckets.
func (t transactionKeys) CategoryMonth(month string) Key {
	return extend(t.Categories(), month)
}

func (t transactionKeys) Category(month, categoryID string) Key {
	return extend(t.CategoryMonth(month), categoryID)
}

type financialKeys struct{}

// Financial builds keys for balance and spending summaries.
var Financial financialKeys

func (financialKeys) All() Key {
	return Key{RootFinancial}
}

func (f financialKeys) Summaries() Key {
	return extend(f.All(), ScopeSummary)
}

func (f financialKeys) Summary(timeRange string) Key {
	return extend(f.Summaries(), timeRange)
}

func (f financialKeys) Balance() Key {
	return extend(f.All(), ScopeBalance)
}

type analyticsKeys struct{}

// Analytics builds keys for spending insights.
var Analytics analyticsKeys

func (analyticsKeys) All() Key {
	return Key{RootAnalytics}
}

func (a analyticsKeys) TopExpensesAll() Key {
	return extend(a.All(), ScopeTopExpenses)
}

func (a analyticsKeys) TopExpenses(timeRange string, limit int) Key {
	return extend(a.TopExpensesAll(), timeRange, strconv.Itoa(limit))
}

// MonthOf returns the month a transaction key is scoped to and whether it has
// one. List keys report their month filter, which may be empty.
func MonthOf(k Key) (string, bool) {
	if k.Root() != RootTransactions {
		return "", false
	}
	switch k.Scope() {
	case ScopeMonthly, ScopeSummary, ScopeCategory:
		if len(k) < 3 {
			return "", false
		}
		return k[2], true
	case ScopeList:
		if len(k) < 5 {
			return "", false
		}
		return k[2], true
	default:
		return "", false
	}
}

// ParseList recovers the filter of a key built by Transactions.List.
func ParseList(k Key) (ListFilter, bool) {
	if len(k) != 5 || k.Root() != RootTransactions || k.Scope() != ScopeList {
		return ListFilter{}, false
	}
	page, err := strconv.Atoi(k[3])
	if err != nil {
		return ListFilter{}, false
	}
	limit, err := strconv.Atoi(k[4])
	if err != nil {
		return ListFilter{}, false
	}
	return ListFilter{Month: k[2], Page: page, Limit: limit}, true
}
