package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTransactionAmount = "1000000000" // 1 billion
	MinYear              = 2000
	MaxYear              = 2100
	DefaultPageSize      = 20
	MaxPageSize          = 100
)

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

var maxAmount = decimal.RequireFromString(MaxTransactionAmount)

// ValidateMonth validates a YYYY-MM month key.
func ValidateMonth(month string) error {
	if month == "" {
		return NewValidationError("month", "Month is required")
	}

	if !monthRegex.MatchString(month) {
		return NewValidationError("month", "Month must be in format YYYY-MM")
	}

	year, _ := strconv.Atoi(month[:4])
	m, _ := strconv.Atoi(month[5:])
	if year < MinYear || year > MaxYear || m < 1 || m > 12 {
		return NewValidationError("month", "Invalid month value")
	}

	return nil
}

// ValidateTransactionID validates a transaction id.
func ValidateTransactionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError("id", "Transaction ID is required")
	}
	return nil
}

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount", "Amount must be greater than 0")
	}

	if amount.GreaterThan(maxAmount) {
		return NewValidationError("amount", "Amount is too large")
	}

	return nil
}

// ValidateDate validates an ISO-8601 date or timestamp and returns it in UTC.
func ValidateDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, NewValidationError("date", "Date is required")
	}

	t, err := ParseDate(date)
	if err != nil {
		return time.Time{}, NewValidationError("date", "Invalid date format")
	}

	return t, nil
}

// ValidateTransactionType validates a transaction type.
func ValidateTransactionType(t string) error {
	if t != string(TypeIncome) && t != string(TypeExpense) {
		return NewValidationError("type", `Transaction type must be "income" or "expense"`)
	}
	return nil
}

// ValidateCategory validates a category reference.
func ValidateCategory(id, name string) error {
	if id == "" {
		return NewValidationError("category.id", "Category ID is required")
	}
	if name == "" {
		return NewValidationError("category.name", "Category name is required")
	}
	return nil
}

// ValidateTimeRange validates a dashboard time range.
func ValidateTimeRange(r string) error {
	switch TimeRange(r) {
	case RangeWeek, RangeMonth:
		return nil
	default:
		return NewValidationError("timeRange", `Time range must be "week" or "month"`)
	}
}

// ValidatePagination normalizes pagination parameters.
func ValidatePagination(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}

	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	return page, limit
}

// ParseDate accepts RFC 3339 timestamps and plain dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
