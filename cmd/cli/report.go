package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

type dailyGroupJSON struct {
	Date         string                    `json:"date"`
	DailyTotal   string                    `json:"dailyTotal"`
	Transactions []dto.TransactionResponse `json:"transactions"`
}

type monthlyReportJSON struct {
	Summary dto.MonthlySummaryResponse `json:"summary"`
	Days    []dailyGroupJSON           `json:"days"`
}

func newReportCmd(rt func() *runtime) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly reports",
	}

	var month string
	monthlyCmd := &cobra.Command{
		Use:   "monthly",
		Short: "Summary and day-by-day breakdown of a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			ctx := cmd.Context()
			if month == "" {
				month = currentMonth()
			}

			summary, err := r.transactions.MonthlySummary(ctx, month)
			if err != nil {
				return err
			}
			if _, err := loadAllPages(func() (cache.Pages[domain.TransactionPage], bool, error) {
				return r.transactions.MonthlyNextPage(ctx, month)
			}); err != nil {
				return err
			}
			groups, err := r.transactions.DailyGroups(ctx, month)
			if err != nil {
				return err
			}

			report := monthlyReportJSON{
				Summary: dto.MonthlySummaryFromDomain(summary),
				Days:    make([]dailyGroupJSON, 0, len(groups)),
			}
			for _, g := range groups {
				report.Days = append(report.Days, dailyGroupJSON{
					Date:         g.Date,
					DailyTotal:   g.DailyTotal.StringFixed(2),
					Transactions: dto.TransactionsFromDomain(g.Transactions),
				})
			}
			if ok, err := r.printJSON(report); ok {
				return err
			}

			printSummary(r.out, summary)
			for _, g := range groups {
				fmt.Fprintf(r.out, "\n%s  total %s\n", g.Date, g.DailyTotal.StringFixed(2))
				if err := printTransactions(r.out, g.Transactions); err != nil {
					return err
				}
			}
			return nil
		},
	}
	monthlyCmd.Flags().StringVar(&month, "month", "", "Month to report (YYYY-MM, default current)")

	reportCmd.AddCommand(monthlyCmd)
	return reportCmd
}

type dashboardJSON struct {
	Balance     dto.BalanceResponse           `json:"balance"`
	Summary     dto.RangeSummaryResponse      `json:"summary"`
	TopExpenses []dto.CategoryExpenseResponse `json:"topExpenses"`
}

func newDashboardCmd(rt func() *runtime) *cobra.Command {
	var timeRange string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Balance, spending comparison and top expense categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			if err := domain.ValidateTimeRange(timeRange); err != nil {
				return err
			}

			d, err := r.dashboard.Load(cmd.Context(), domain.TimeRange(timeRange))
			if err != nil {
				return err
			}

			out := dashboardJSON{
				Balance: dto.BalanceResponse{
					Amount:   d.Balance.Amount,
					Currency: d.Balance.Currency,
				},
				Summary: dto.RangeSummaryResponse{
					Current:  d.Summary.Current,
					Previous: d.Summary.Previous,
				},
				TopExpenses: dto.CategoryExpensesFromDomain(d.TopExpenses),
			}
			if ok, err := r.printJSON(out); ok {
				return err
			}

			fmt.Fprintf(r.out, "Balance: %s %s\n", d.Balance.Amount.StringFixed(2), d.Balance.Currency)
			fmt.Fprintf(r.out, "Spent this %s: %s (previous %s)\n\n",
				timeRange, d.Summary.Current.StringFixed(2), d.Summary.Previous.StringFixed(2))

			tw := newTable(r.out)
			fmt.Fprintln(tw, "CATEGORY\tEXPENSE\tSHARE")
			for _, row := range d.TopExpenses {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", row.CategoryName, row.Expense.StringFixed(2), percent(row.Ratio))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&timeRange, "range", string(domain.RangeMonth), "Comparison window: week or month")
	return cmd
}

func newKanbanCmd(rt func() *runtime) *cobra.Command {
	var (
		month  string
		typ    string
		search string
	)

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Transactions of a month grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			if month == "" {
				month = currentMonth()
			}

			columns, err := r.transactions.Kanban(cmd.Context(), domain.KanbanFilter{
				Month:  month,
				Search: search,
				Type:   domain.TransactionType(typ),
			})
			if err != nil {
				return err
			}

			if r.opts.jsonOut {
				type columnJSON struct {
					CategoryID   string                    `json:"categoryId"`
					CategoryName string                    `json:"categoryName"`
					Total        string                    `json:"total"`
					Count        int                       `json:"count"`
					Transactions []dto.TransactionResponse `json:"transactions"`
				}
				out := make([]columnJSON, 0, len(columns))
				for _, c := range columns {
					out = append(out, columnJSON{
						CategoryID:   c.Category.ID,
						CategoryName: c.Category.Name,
						Total:        c.Total.StringFixed(2),
						Count:        c.Count,
						Transactions: dto.TransactionsFromDomain(c.Transactions),
					})
				}
				_, err := r.printJSON(out)
				return err
			}

			for _, c := range columns {
				fmt.Fprintf(r.out, "== %s (%d, %s)\n", c.Category.Name, c.Count, c.Total.StringFixed(2))
				for i := range c.Transactions {
					tx := &c.Transactions[i]
					fmt.Fprintf(r.out, "  %s  %s  %s\n", tx.Date.UTC().Format(time.DateOnly), signed(tx), tx.Note)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM, default current)")
	cmd.Flags().StringVar(&typ, "type", "", "Only income or expense")
	cmd.Flags().StringVar(&search, "search", "", "Match against note and category name")
	return cmd
}
