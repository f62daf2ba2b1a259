package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/usecase"
)

func newTxCmd(rt func() *runtime) *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction operations",
	}

	txCmd.AddCommand(
		newTxListCmd(rt),
		newTxShowCmd(rt),
		newTxAddCmd(rt),
		newTxEditCmd(rt),
		newTxDeleteCmd(rt),
	)
	return txCmd
}

func newTxListCmd(rt func() *runtime) *cobra.Command {
	var (
		month string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			ctx := cmd.Context()

			var (
				txs     []domain.Transaction
				summary *domain.MonthlySummary
			)
			if month != "" {
				pages, err := r.transactions.Monthly(ctx, month)
				if err != nil {
					return err
				}
				if all {
					if pages, err = loadAllPages(func() (cache.Pages[domain.TransactionPage], bool, error) {
						return r.transactions.MonthlyNextPage(ctx, month)
					}); err != nil {
						return err
					}
				}
				txs = usecase.Flatten(pages)

				s, err := r.transactions.MonthlySummary(ctx, month)
				if err != nil {
					return err
				}
				summary = &s

				if _, err := r.prefetch.PrefetchNextMonth(ctx, month); err != nil {
					r.logger.Debug().Err(err).Msg("next month prefetch failed")
				}
			} else {
				pages, err := r.transactions.Recent(ctx)
				if err != nil {
					return err
				}
				if all {
					if pages, err = loadAllPages(func() (cache.Pages[domain.TransactionPage], bool, error) {
						return r.transactions.RecentNextPage(ctx)
					}); err != nil {
						return err
					}
				}
				txs = usecase.Flatten(pages)
			}

			if ok, err := r.printJSON(transactionsJSON(txs)); ok {
				return err
			}
			if err := printTransactions(r.out, txs); err != nil {
				return err
			}
			if summary != nil {
				printSummary(r.out, *summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to list (YYYY-MM)")
	cmd.Flags().BoolVar(&all, "all", false, "Load every page")
	return cmd
}

// loadAllPages calls next until it reports no further page.
func loadAllPages(next func() (cache.Pages[domain.TransactionPage], bool, error)) (cache.Pages[domain.TransactionPage], error) {
	for {
		pages, more, err := next()
		if err != nil || !more {
			return pages, err
		}
	}
}

func newTxShowCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			tx, err := r.transactions.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ok, err := r.printJSON(dto.TransactionFromDomain(&tx)); ok {
				return err
			}
			return printTransaction(r.out, tx)
		},
	}
}

// txFlags are the write fields shared by add and edit.
type txFlags struct {
	amount   string
	typ      string
	category string
	date     string
	note     string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "Positive amount, e.g. 12.50")
	cmd.Flags().StringVar(&f.typ, "type", "", "income or expense")
	cmd.Flags().StringVar(&f.category, "category", "", "Category id or name from the catalog")
	cmd.Flags().StringVar(&f.date, "date", "", "Date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&f.note, "note", "", "Free-form note")
}

// apply copies the flags that were set onto in.
func (f *txFlags) apply(cmd *cobra.Command, in *domain.TransactionInput) error {
	if cmd.Flags().Changed("amount") {
		amount, err := decimal.NewFromString(f.amount)
		if err != nil {
			return domain.NewValidationError("amount", "Amount must be a number")
		}
		in.Amount = amount
	}
	if cmd.Flags().Changed("type") {
		in.Type = domain.TransactionType(f.typ)
	}
	if cmd.Flags().Changed("category") {
		cat, err := lookupCategory(in.Type, f.category)
		if err != nil {
			return err
		}
		in.CategoryID = cat.ID
		in.CategoryName = cat.Name
	}
	if cmd.Flags().Changed("date") {
		in.Date = f.date
	}
	if cmd.Flags().Changed("note") {
		in.Note = f.note
	}
	return nil
}

func lookupCategory(typ domain.TransactionType, ref string) (domain.Category, error) {
	for _, c := range domain.CategoriesFor(typ) {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return domain.Category{}, domain.NewValidationError("category", fmt.Sprintf("Unknown %s category %q", typ, ref))
}

func newTxAddCmd(rt func() *runtime) *cobra.Command {
	flags := &txFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			in := domain.TransactionInput{
				Type: domain.TypeExpense,
				Date: timeNow().UTC().Format(time.RFC3339),
			}
			if err := flags.apply(cmd, &in); err != nil {
				return err
			}

			tx, err := r.transactions.CreateMutation().MutateAsync(cmd.Context(), in)
			if err != nil {
				return err
			}
			if ok, err := r.printJSON(dto.TransactionFromDomain(&tx)); ok {
				return err
			}
			fmt.Fprintf(r.out, "created %s\n", tx.ID)
			return printTransaction(r.out, tx)
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newTxEditCmd(rt func() *runtime) *cobra.Command {
	flags := &txFlags{}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			ctx := cmd.Context()

			current, err := r.transactions.Detail(ctx, args[0])
			if err != nil {
				return err
			}
			in := domain.TransactionInput{
				Amount:       current.Amount,
				Type:         current.Type,
				CategoryID:   current.Category.ID,
				CategoryName: current.Category.Name,
				Date:         current.Date.UTC().Format(time.RFC3339),
				Note:         current.Note,
			}
			if err := flags.apply(cmd, &in); err != nil {
				return err
			}

			tx, err := r.transactions.UpdateMutation().MutateAsync(ctx, usecase.UpdateInput{ID: args[0], Input: in})
			if err != nil {
				return err
			}
			if ok, err := r.printJSON(dto.TransactionFromDomain(&tx)); ok {
				return err
			}
			fmt.Fprintf(r.out, "updated %s\n", tx.ID)
			return printTransaction(r.out, tx)
		},
	}

	flags.register(cmd)
	return cmd
}

func newTxDeleteCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			if _, err := r.transactions.DeleteMutation().MutateAsync(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("transaction %s not found", args[0])
				}
				return err
			}
			fmt.Fprintf(r.out, "deleted %s\n", args[0])
			return nil
		},
	}
}
