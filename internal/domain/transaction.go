package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money for a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// OptimisticIDPrefix marks client-side placeholder transactions.
// Server ids are ULIDs and can never start with it.
const OptimisticIDPrefix = "optimistic-"

// Category identifies what a transaction was spent on or earned from.
type Category struct {
	ID   string
	Name string
	Icon string
}

// Transaction is a single income or expense record.
type Transaction struct {
	ID       string
	Amount   decimal.Decimal
	Type     TransactionType
	Category Category
	Date     time.Time
	Note     string
}

// SignedAmount returns the amount with expenses negated.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Month returns the YYYY-MM bucket the transaction belongs to.
func (t *Transaction) Month() string {
	return MonthKey(t.Date)
}

// IsOptimistic reports whether the transaction is an unconfirmed local copy.
func (t *Transaction) IsOptimistic() bool {
	return IsOptimisticID(t.ID)
}

// IsOptimisticID reports whether id was issued by NewOptimisticID.
func IsOptimisticID(id string) bool {
	return strings.HasPrefix(id, OptimisticIDPrefix)
}

// NewOptimisticID builds a temporary id from a timestamp.
func NewOptimisticID(now time.Time) string {
	return OptimisticIDPrefix + strconv.FormatInt(now.UnixNano(), 10)
}

// TransactionPage is one page of a paginated transaction listing.
type TransactionPage struct {
	Items    []Transaction
	Page     int
	PageSize int
	Total    int
	HasMore  bool
	Summary  *MonthlySummary
}

// TransactionFilter selects transactions from a store.
type TransactionFilter struct {
	Month string
	Page  int
	Limit int
}

// TransactionInput is the write payload for create and update.
type TransactionInput struct {
	Amount       decimal.Decimal
	Type         TransactionType
	CategoryID   string
	CategoryName string
	Date         string
	Note         string
}

// Validate checks the write contract before anything leaves the process.
func (in TransactionInput) Validate() error {
	if err := ValidateAmount(in.Amount); err != nil {
		return err
	}
	if err := ValidateTransactionType(string(in.Type)); err != nil {
		return err
	}
	if _, err := ValidateDate(in.Date); err != nil {
		return err
	}
	return ValidateCategory(in.CategoryID, in.CategoryName)
}

// ToTransaction materializes the input under the given id.
// The input must already be validated.
func (in TransactionInput) ToTransaction(id string) Transaction {
	date, _ := ParseDate(in.Date)
	return Transaction{
		ID:     id,
		Amount: in.Amount,
		Type:   in.Type,
		Category: Category{
			ID:   in.CategoryID,
			Name: in.CategoryName,
		},
		Date: date,
		Note: in.Note,
	}
}
