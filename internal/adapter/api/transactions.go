package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// Backend route prefixes.
const (
	MockPrefix = "/api/mock"
	AuthPrefix = "/api/auth"
)

// IdempotencyHeader carries the client-chosen key of a create request.
const IdempotencyHeader = "Idempotency-Key"

// TransactionsClient calls the transaction endpoints.
type TransactionsClient struct {
	client *Client
	newKey func() string
}

// NewTransactionsClient creates a transactions client.
func NewTransactionsClient(c *Client) *TransactionsClient {
	return &TransactionsClient{client: c, newKey: uuid.NewString}
}

// List fetches one page of transactions, optionally limited to a month.
func (t *TransactionsClient) List(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	q := url.Values{}
	if filter.Month != "" {
		q.Set("month", filter.Month)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var resp dto.TransactionPageResponse
	if err := t.client.Request(ctx, http.MethodGet, MockPrefix+"/transactions", q, nil, &resp); err != nil {
		return domain.TransactionPage{}, err
	}
	return resp.ToDomain(), nil
}

// Get fetches one transaction.
func (t *TransactionsClient) Get(ctx context.Context, id string) (domain.Transaction, error) {
	var resp dto.TransactionResponse
	if err := t.client.Request(ctx, http.MethodGet, transactionPath(id), nil, nil, &resp); err != nil {
		return domain.Transaction{}, err
	}
	return resp.ToDomain(), nil
}

// Create posts a new transaction under a fresh idempotency key.
func (t *TransactionsClient) Create(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	var resp dto.TransactionResponse
	err := t.client.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   MockPrefix + "/transactions",
		Body:   dto.TransactionRequestFromDomain(in),
		Out:    &resp,
		Header: http.Header{IdempotencyHeader: []string{t.newKey()}},
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return resp.ToDomain(), nil
}

// Update replaces a transaction.
func (t *TransactionsClient) Update(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error) {
	var resp dto.TransactionResponse
	body := dto.TransactionRequestFromDomain(in)
	if err := t.client.Request(ctx, http.MethodPut, transactionPath(id), nil, body, &resp); err != nil {
		return domain.Transaction{}, err
	}
	return resp.ToDomain(), nil
}

// Delete removes a transaction.
func (t *TransactionsClient) Delete(ctx context.Context, id string) error {
	return t.client.Request(ctx, http.MethodDelete, transactionPath(id), nil, nil, nil)
}

// MonthlySummary fetches the before/after summary of a month.
func (t *TransactionsClient) MonthlySummary(ctx context.Context, month string) (domain.MonthlySummary, error) {
	var resp dto.MonthlySummaryResponse
	q := url.Values{"month": []string{month}}
	if err := t.client.Request(ctx, http.MethodGet, MockPrefix+"/transactions/summary", q, nil, &resp); err != nil {
		return domain.MonthlySummary{}, err
	}
	return resp.ToDomain(), nil
}

func transactionPath(id string) string {
	return MockPrefix + "/transactions/" + url.PathEscape(id)
}
