package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/usecase"
	"github.com/dinhcongdat866/moneytracker/internal/usecase/mocks"
)

func TestDashboardUseCase_Load(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockDashboardAPI(ctrl)
	uc := usecase.NewDashboardUseCase(newStore(t), api)

	api.EXPECT().Balance(gomock.Any()).Return(domain.Balance{Amount: decimal.NewFromInt(1200), Currency: "USD"}, nil)
	api.EXPECT().Summary(gomock.Any(), domain.RangeWeek).Return(domain.RangeSummary{Current: decimal.NewFromInt(50)}, nil)
	api.EXPECT().TopExpenses(gomock.Any(), domain.RangeWeek, usecase.DefaultTopExpensesLimit).Return([]domain.CategoryExpense{
		{CategoryID: "5", CategoryName: "Rent", Expense: decimal.NewFromInt(900)},
	}, nil)

	d, err := uc.Load(context.Background(), domain.RangeWeek)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !d.Balance.Amount.Equal(decimal.NewFromInt(1200)) || d.Balance.Currency != "USD" {
		t.Fatalf("unexpected balance %+v", d.Balance)
	}
	if !d.Summary.Current.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected summary %+v", d.Summary)
	}
	if len(d.TopExpenses) != 1 || d.TopExpenses[0].CategoryName != "Rent" {
		t.Fatalf("unexpected top expenses %+v", d.TopExpenses)
	}
}

func TestDashboardUseCase_Load_Error(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockDashboardAPI(ctrl)
	uc := usecase.NewDashboardUseCase(newStore(t), api)

	unauthorized := &domain.APIError{Kind: domain.KindUnauthorized, Status: 401}
	api.EXPECT().Balance(gomock.Any()).Return(domain.Balance{}, unauthorized)
	api.EXPECT().Summary(gomock.Any(), domain.RangeMonth).Return(domain.RangeSummary{}, nil).AnyTimes()
	api.EXPECT().TopExpenses(gomock.Any(), domain.RangeMonth, gomock.Any()).Return(nil, nil).AnyTimes()

	if _, err := uc.Load(context.Background(), domain.RangeMonth); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestDashboardUseCase_RejectsUnknownRange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	uc := usecase.NewDashboardUseCase(newStore(t), mocks.NewMockDashboardAPI(ctrl))

	if _, err := uc.Summary(context.Background(), "year"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.TopExpenses(context.Background(), "", 3); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDashboardUseCase_BalanceIsCached(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockDashboardAPI(ctrl)
	uc := usecase.NewDashboardUseCase(newStore(t), api)

	api.EXPECT().Balance(gomock.Any()).Return(domain.Balance{Amount: decimal.NewFromInt(10), Currency: "USD"}, nil).Times(1)

	for i := 0; i < 3; i++ {
		if _, err := uc.Balance(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
}
