package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

func TestTransactionFromDomain(t *testing.T) {
	tx := &domain.Transaction{
		ID:       "t1",
		Amount:   decimal.RequireFromString("25.5"),
		Type:     domain.TypeExpense,
		Category: domain.Category{ID: "1", Name: "Food & Drink"},
		Date:     time.Date(2025, 12, 3, 12, 0, 0, 0, time.UTC),
		Note:     "Lunch",
	}

	resp := TransactionFromDomain(tx)
	if resp.ID != "t1" || resp.Amount.String() != "25.5" || resp.Category.Name != "Food & Drink" {
		t.Fatalf("unexpected transaction response: %+v", resp)
	}

	back := resp.ToDomain()
	if back.ID != tx.ID || !back.Amount.Equal(tx.Amount) || !back.Date.Equal(tx.Date) || back.Type != tx.Type {
		t.Fatalf("ToDomain returned %+v", back)
	}
}

func TestTransactionResponseWireShape(t *testing.T) {
	body := []byte(`{"id":"t2","amount":1200,"type":"income","category":{"id":"2","name":"Salary"},"date":"2025-12-02T09:00:00.000Z"}`)

	var resp TransactionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !resp.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected numeric amount to decode, got %s", resp.Amount)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(out, &generic); err != nil {
		t.Fatalf("failed to decode generic: %v", err)
	}
	for _, field := range []string{"id", "amount", "type", "category", "date"} {
		if _, ok := generic[field]; !ok {
			t.Fatalf("expected field %q in %s", field, out)
		}
	}
	if _, ok := generic["note"]; ok {
		t.Fatalf("empty note must be omitted, got %s", out)
	}
	if amount, ok := generic["amount"].(float64); !ok || amount != 1200 {
		t.Fatalf("expected amount as a JSON number, got %s", out)
	}
}

func TestTransactionPageRoundTrip(t *testing.T) {
	page := &domain.TransactionPage{
		Items:    []domain.Transaction{{ID: "a", Amount: decimal.NewFromInt(1), Type: domain.TypeIncome}},
		Page:     1,
		PageSize: 20,
		Total:    1,
		Summary:  &domain.MonthlySummary{Month: "Dec 2025", TotalBefore: decimal.NewFromInt(1)},
	}

	resp := TransactionPageFromDomain(page)
	back := resp.ToDomain()

	if len(back.Items) != 1 || back.Items[0].ID != "a" || back.Total != 1 || back.PageSize != 20 {
		t.Fatalf("unexpected page: %+v", back)
	}
	if back.Summary == nil || back.Summary.Month != "Dec 2025" {
		t.Fatalf("expected summary to survive, got %+v", back.Summary)
	}
}

func TestTransactionRequestToDomain(t *testing.T) {
	req := TransactionRequest{
		Amount:       decimal.NewFromInt(150),
		Type:         "expense",
		CategoryID:   "1",
		CategoryName: "Food & Drink",
		Date:         "2026-02-15T10:00:00.000Z",
		Note:         "dinner",
	}

	in := req.ToDomain()
	if in.Type != domain.TypeExpense || in.CategoryID != "1" || in.Note != "dinner" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if got := TransactionRequestFromDomain(in); got != req {
		t.Fatalf("expected %+v, got %+v", req, got)
	}
}
