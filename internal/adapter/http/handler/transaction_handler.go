package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	List(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionPage, error)
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	Create(ctx context.Context, in domain.TransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, id string, in domain.TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	MonthlySummary(ctx context.Context, month string) (domain.MonthlySummary, error)
}

// TransactionHandler handles transaction HTTP requests.
type TransactionHandler struct {
	svc TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// List returns one page of transactions, optionally for one month.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.TransactionFilter{
		Month: r.URL.Query().Get("month"),
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", domain.DefaultPageSize),
	}

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, "failed to list transactions")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromDomain(page))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Create creates a transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tx, err := h.svc.Create(r.Context(), req.ToDomain())
	if err != nil {
		writeDomainError(w, err, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Update replaces a transaction.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tx, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		writeDomainError(w, err, "failed to update transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err, "failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MonthlySummary returns the before/after totals of a month.
func (h *TransactionHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.MonthlySummary(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeDomainError(w, err, "failed to summarize month")
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlySummaryFromDomain(summary))
}
