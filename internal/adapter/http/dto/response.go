package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// Amounts travel as JSON numbers on both sides of the API.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CategoryResponse is the category embedded in a transaction.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID       string           `json:"id"`
	Amount   decimal.Decimal  `json:"amount"`
	Type     string           `json:"type"`
	Category CategoryResponse `json:"category"`
	Date     time.Time        `json:"date"`
	Note     string           `json:"note,omitempty"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:     t.ID,
		Amount: t.Amount,
		Type:   string(t.Type),
		Category: CategoryResponse{
			ID:   t.Category.ID,
			Name: t.Category.Name,
			Icon: t.Category.Icon,
		},
		Date: t.Date.UTC(),
		Note: t.Note,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(txs))
	for i := range txs {
		result[i] = TransactionFromDomain(&txs[i])
	}
	return result
}

// ToDomain converts the response back to a domain transaction.
func (r *TransactionResponse) ToDomain() domain.Transaction {
	return domain.Transaction{
		ID:     r.ID,
		Amount: r.Amount,
		Type:   domain.TransactionType(r.Type),
		Category: domain.Category{
			ID:   r.Category.ID,
			Name: r.Category.Name,
			Icon: r.Category.Icon,
		},
		Date: r.Date.UTC(),
		Note: r.Note,
	}
}

// MonthlySummaryResponse represents a month's before/after totals.
type MonthlySummaryResponse struct {
	Month       string          `json:"month"`
	TotalBefore decimal.Decimal `json:"totalBefore"`
	TotalAfter  decimal.Decimal `json:"totalAfter"`
	Difference  decimal.Decimal `json:"difference"`
}

// MonthlySummaryFromDomain converts a domain summary to response.
func MonthlySummaryFromDomain(s domain.MonthlySummary) MonthlySummaryResponse {
	return MonthlySummaryResponse{
		Month:       s.Month,
		TotalBefore: s.TotalBefore,
		TotalAfter:  s.TotalAfter,
		Difference:  s.Difference,
	}
}

func (r *MonthlySummaryResponse) ToDomain() domain.MonthlySummary {
	return domain.MonthlySummary{
		Month:       r.Month,
		TotalBefore: r.TotalBefore,
		TotalAfter:  r.TotalAfter,
		Difference:  r.Difference,
	}
}

// TransactionPageResponse is one page of a transaction listing.
type TransactionPageResponse struct {
	Items    []TransactionResponse   `json:"items"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
	Total    int                     `json:"total"`
	HasMore  bool                    `json:"hasMore"`
	Summary  *MonthlySummaryResponse `json:"summary,omitempty"`
}

// TransactionPageFromDomain converts a domain page to response.
func TransactionPageFromDomain(p *domain.TransactionPage) TransactionPageResponse {
	resp := TransactionPageResponse{
		Items:    TransactionsFromDomain(p.Items),
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasMore:  p.HasMore,
	}
	if p.Summary != nil {
		s := MonthlySummaryFromDomain(*p.Summary)
		resp.Summary = &s
	}
	return resp
}

func (r *TransactionPageResponse) ToDomain() domain.TransactionPage {
	items := make([]domain.Transaction, len(r.Items))
	for i := range r.Items {
		items[i] = r.Items[i].ToDomain()
	}
	page := domain.TransactionPage{
		Items:    items,
		Page:     r.Page,
		PageSize: r.PageSize,
		Total:    r.Total,
		HasMore:  r.HasMore,
	}
	if r.Summary != nil {
		s := r.Summary.ToDomain()
		page.Summary = &s
	}
	return page
}

// BalanceResponse represents the account balance.
type BalanceResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// RangeSummaryResponse compares the current and previous window.
type RangeSummaryResponse struct {
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
}

// CategoryExpenseResponse is one row of the top expenses.
type CategoryExpenseResponse struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Expense      decimal.Decimal `json:"expense"`
	Ratio        decimal.Decimal `json:"ratio"`
}

// CategoryExpensesFromDomain converts domain rows to responses.
func CategoryExpensesFromDomain(rows []domain.CategoryExpense) []CategoryExpenseResponse {
	result := make([]CategoryExpenseResponse, len(rows))
	for i, r := range rows {
		result[i] = CategoryExpenseResponse{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Expense:      r.Expense,
			Ratio:        r.Ratio,
		}
	}
	return result
}

// CategoryExpensesToDomain converts responses to domain rows.
func CategoryExpensesToDomain(rows []CategoryExpenseResponse) []domain.CategoryExpense {
	result := make([]domain.CategoryExpense, len(rows))
	for i, r := range rows {
		result[i] = domain.CategoryExpense{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Expense:      r.Expense,
			Ratio:        r.Ratio,
		}
	}
	return result
}

// UserInfo represents user information.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse represents a login response.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
