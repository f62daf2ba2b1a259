package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

type seedRow struct {
	id, amount, typ, catID, catName, date, note string
}

var seedRows = []seedRow{
	{"t1", "25.5", "expense", "1", "Food & Drink", "2025-12-03T12:00:00Z", "Lunch"},
	{"t2", "1200", "income", "2", "Salary", "2025-12-02T09:00:00Z", "Monthly salary"},
	{"t3", "60", "expense", "3", "Transport", "2025-11-28T18:30:00Z", "Gas"},
	{"t4", "40", "expense", "4", "Entertainment", "2025-11-15T20:00:00Z", "Movies"},
	{"t5", "500", "expense", "5", "Rent", "2025-12-03T09:00:00Z", "Rent"},
	{"t6", "18.75", "expense", "1", "Food & Drink", "2025-12-04T08:10:00Z", "Coffee & bagel"},
	{"t7", "82.4", "expense", "6", "Groceries", "2025-12-04T19:45:00Z", "Weekly grocery run"},
	{"t8", "230", "expense", "7", "Utilities", "2025-12-01T14:00:00Z", "Electricity bill"},
	{"t9", "55", "expense", "3", "Transport", "2025-12-05T07:50:00Z", "Ride share"},
	{"t10", "320", "expense", "8", "Health", "2025-11-30T10:15:00Z", "Dental checkup"},
	{"t11", "45", "income", "9", "Refund", "2025-12-06T11:25:00Z", "Order refund"},
	{"t12", "75", "income", "10", "Gift", "2025-11-27T16:00:00Z", "Gift from friend"},
	{"t13", "2600", "income", "2", "Salary", "2025-11-25T09:00:00Z", "Side contract"},
	{"t14", "95", "expense", "11", "Shopping", "2025-12-06T13:40:00Z", "Clothes"},
	{"t15", "12", "expense", "1", "Food & Drink", "2025-12-06T18:20:00Z", "Snacks"},
	{"t16", "150", "expense", "12", "Education", "2025-12-02T21:10:00Z", "Online course"},
	{"t17", "42", "expense", "4", "Entertainment", "2025-12-05T22:00:00Z", "Streaming subs"},
	{"t18", "15", "income", "9", "Refund", "2025-12-05T12:30:00Z", "Return credit"},
	{"t19", "410", "expense", "7", "Utilities", "2025-10-29T09:10:00Z", "Water + gas"},
	{"t20", "200", "expense", "13", "Travel", "2025-11-10T06:30:00Z", "Train tickets"},
	{"t21", "38", "expense", "1", "Food & Drink", "2025-12-07T08:15:00Z", "Breakfast"},
	{"t22", "210", "income", "10", "Gift", "2025-12-07T15:45:00Z", "Family gift"},
	{"t23", "67", "expense", "11", "Shopping", "2025-12-07T17:20:00Z", "Books"},
}

// SeedTransactions returns the demo data set, oldest ids first.
func SeedTransactions() []domain.Transaction {
	out := make([]domain.Transaction, len(seedRows))
	for i, r := range seedRows {
		date, err := time.Parse(time.RFC3339, r.date)
		if err != nil {
			panic(err)
		}
		out[i] = domain.Transaction{
			ID:       r.id,
			Amount:   decimal.RequireFromString(r.amount),
			Type:     domain.TransactionType(r.typ),
			Category: domain.Category{ID: r.catID, Name: r.catName},
			Date:     date,
			Note:     r.note,
		}
	}
	return out
}
