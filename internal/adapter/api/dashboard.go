package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// DashboardClient calls the financial and analytics endpoints.
type DashboardClient struct {
	client *Client
}

// NewDashboardClient creates a dashboard client.
func NewDashboardClient(c *Client) *DashboardClient {
	return &DashboardClient{client: c}
}

func (d *DashboardClient) Balance(ctx context.Context) (domain.Balance, error) {
	var resp dto.BalanceResponse
	if err := d.client.Request(ctx, http.MethodGet, MockPrefix+"/balance", nil, nil, &resp); err != nil {
		return domain.Balance{}, err
	}
	return domain.Balance{Amount: resp.Amount, Currency: resp.Currency}, nil
}

func (d *DashboardClient) Summary(ctx context.Context, r domain.TimeRange) (domain.RangeSummary, error) {
	var resp dto.RangeSummaryResponse
	q := url.Values{"timeRange": []string{string(r)}}
	if err := d.client.Request(ctx, http.MethodGet, MockPrefix+"/summary", q, nil, &resp); err != nil {
		return domain.RangeSummary{}, err
	}
	return domain.RangeSummary{Current: resp.Current, Previous: resp.Previous}, nil
}

func (d *DashboardClient) TopExpenses(ctx context.Context, r domain.TimeRange, limit int) ([]domain.CategoryExpense, error) {
	var resp []dto.CategoryExpenseResponse
	q := url.Values{
		"timeRange": []string{string(r)},
		"limit":     []string{strconv.Itoa(limit)},
	}
	if err := d.client.Request(ctx, http.MethodGet, MockPrefix+"/expenses/top", q, nil, &resp); err != nil {
		return nil, err
	}
	return dto.CategoryExpensesToDomain(resp), nil
}
