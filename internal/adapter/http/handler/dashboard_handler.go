package handler

import (
	"context"
	"net/http"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	Balance(ctx context.Context) (domain.Balance, error)
	Summary(ctx context.Context, r domain.TimeRange) (domain.RangeSummary, error)
	TopExpenses(ctx context.Context, r domain.TimeRange, limit int) ([]domain.CategoryExpense, error)
}

// DashboardHandler serves the dashboard figures.
type DashboardHandler struct {
	svc DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Balance returns the current balance.
func (h *DashboardHandler) Balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Balance(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to load balance")
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{Amount: b.Amount, Currency: b.Currency})
}

// Summary compares the current and previous window.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context(), timeRange(r))
	if err != nil {
		writeDomainError(w, err, "failed to load summary")
		return
	}

	writeJSON(w, http.StatusOK, dto.RangeSummaryResponse{Current: s.Current, Previous: s.Previous})
}

// TopExpenses returns the biggest expense categories of the window.
func (h *DashboardHandler) TopExpenses(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.TopExpenses(r.Context(), timeRange(r), parseIntQuery(r, "limit", 0))
	if err != nil {
		writeDomainError(w, err, "failed to load top expenses")
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryExpensesFromDomain(rows))
}

// timeRange reads the window, defaulting to a month.
func timeRange(r *http.Request) domain.TimeRange {
	if v := r.URL.Query().Get("timeRange"); v != "" {
		return domain.TimeRange(v)
	}
	return domain.RangeMonth
}
