package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

var timeNow = time.Now

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printTransactions(w io.Writer, txs []domain.Transaction) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tNOTE")
	for i := range txs {
		tx := &txs[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID,
			tx.Date.UTC().Format(time.DateOnly),
			tx.Type,
			tx.Category.Name,
			signed(tx),
			tx.Note,
		)
	}
	return tw.Flush()
}

func printTransaction(w io.Writer, tx domain.Transaction) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", tx.ID)
	fmt.Fprintf(tw, "Date:\t%s\n", tx.Date.UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "Type:\t%s\n", tx.Type)
	fmt.Fprintf(tw, "Category:\t%s (%s)\n", tx.Category.Name, tx.Category.ID)
	fmt.Fprintf(tw, "Amount:\t%s\n", tx.Amount.StringFixed(2))
	if tx.Note != "" {
		fmt.Fprintf(tw, "Note:\t%s\n", tx.Note)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s domain.MonthlySummary) {
	fmt.Fprintf(w, "%s: before %s, after %s, difference %s\n",
		s.Month,
		s.TotalBefore.StringFixed(2),
		s.TotalAfter.StringFixed(2),
		s.Difference.StringFixed(2),
	)
}

func signed(tx *domain.Transaction) string {
	amount := tx.SignedAmount()
	if amount.IsPositive() {
		return "+" + amount.StringFixed(2)
	}
	return amount.StringFixed(2)
}

func percent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func transactionsJSON(txs []domain.Transaction) []dto.TransactionResponse {
	return dto.TransactionsFromDomain(txs)
}
