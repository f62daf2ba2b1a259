package domain

import "github.com/shopspring/decimal"

// TimeRange is a dashboard comparison window.
type TimeRange string

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

// Balance is the current account balance.
type Balance struct {
	Amount   decimal.Decimal
	Currency string
}

// RangeSummary compares spending in the current and previous window.
type RangeSummary struct {
	Current  decimal.Decimal
	Previous decimal.Decimal
}

// CategoryExpense is one row of the top-expenses analytics.
type CategoryExpense struct {
	CategoryID   string
	CategoryName string
	Expense      decimal.Decimal
	Ratio        decimal.Decimal
}

// MonthlySummary is derived from one month of transactions.
type MonthlySummary struct {
	Month       string
	TotalBefore decimal.Decimal
	TotalAfter  decimal.Decimal
	Difference  decimal.Decimal
}

// DailyGroup holds the transactions of one UTC calendar day.
type DailyGroup struct {
	Date         string
	DailyTotal   decimal.Decimal
	Transactions []Transaction
}

// KanbanColumn holds the transactions of one category.
type KanbanColumn struct {
	Category     Category
	Transactions []Transaction
	Total        decimal.Decimal
	Count        int
}

// KanbanFilter narrows the transactions shown on the board.
type KanbanFilter struct {
	Month  string
	Search string
	Type   TransactionType // empty means all
}

// IncomeCategories is the catalog offered for income transactions.
var IncomeCategories = []Category{
	{ID: "2", Name: "Salary"},
	{ID: "6", Name: "Freelance"},
	{ID: "7", Name: "Investment"},
	{ID: "8", Name: "Gift"},
	{ID: "9", Name: "Other Income"},
}

// ExpenseCategories is the catalog offered for expense transactions.
var ExpenseCategories = []Category{
	{ID: "1", Name: "Food & Drink"},
	{ID: "3", Name: "Transport"},
	{ID: "4", Name: "Entertainment"},
	{ID: "5", Name: "Rent"},
	{ID: "10", Name: "Utilities"},
	{ID: "11", Name: "Shopping"},
	{ID: "12", Name: "Healthcare"},
	{ID: "13", Name: "Education"},
	{ID: "14", Name: "Other Expense"},
}

// CategoriesFor returns the catalog for a transaction type.
func CategoriesFor(t TransactionType) []Category {
	if t == TypeIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}
