package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// TransactionRequest is the body of create and update calls.
type TransactionRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Date         string          `json:"date"`
	Note         string          `json:"note,omitempty"`
}

// ToDomain converts to the domain write payload.
func (r *TransactionRequest) ToDomain() domain.TransactionInput {
	return domain.TransactionInput{
		Amount:       r.Amount,
		Type:         domain.TransactionType(r.Type),
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		Date:         r.Date,
		Note:         r.Note,
	}
}

// TransactionRequestFromDomain builds the wire body for in.
func TransactionRequestFromDomain(in domain.TransactionInput) TransactionRequest {
	return TransactionRequest{
		Amount:       in.Amount,
		Type:         string(in.Type),
		CategoryID:   in.CategoryID,
		CategoryName: in.CategoryName,
		Date:         in.Date,
		Note:         in.Note,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
