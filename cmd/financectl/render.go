package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/pkg/money"
)

func printProfile(out io.Writer, p *domain.UserProfile) {
	fmt.Fprintf(out, "Username  %s\n", p.Username)
	fmt.Fprintf(out, "Name      %s\n", p.Name)
	fmt.Fprintf(out, "Email     %s\n", p.Email)
	if p.ID != "" {
		fmt.Fprintf(out, "ID        %s\n", p.ID)
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(out, "Joined    %s\n", p.CreatedAt.Local().Format(time.DateOnly))
	}
}

func printSummary(out io.Writer, s domain.Summary) {
	fmt.Fprintf(out, "Income    %s\n", money.FormatRupiah(s.TotalIncome))
	fmt.Fprintf(out, "Expense   %s\n", money.FormatRupiah(s.TotalExpense))
	fmt.Fprintf(out, "Balance   %s\n", money.FormatRupiah(s.Balance()))
}

func printTransactions(out io.Writer, txs []domain.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(out, "No transactions")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAMOUNT\tDESCRIPTION\tID")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			tx.Date.Local().Format(time.DateOnly),
			money.FormatSigned(tx.Amount, tx.Type == domain.TransactionIncome),
			tx.Description,
			tx.ID,
		)
	}
	tw.Flush()
}

func printCategories(out io.Writer, cats []domain.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(out, "No categories")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tCOLOR\tID")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Type, c.Color, c.ID)
	}
	tw.Flush()
}
