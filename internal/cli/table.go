package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/shopspring/decimal"
)

// SignedText formats a signed amount as plain currency text.
func SignedText(amount decimal.Decimal) string {
	text := "$" + amount.Abs().StringFixed(2)
	switch amount.Sign() {
	case 1:
		return "+" + text
	case -1:
		return "-" + text
	}
	return text
}

// RenderRecords writes records as an aligned table.
func RenderRecords(out io.Writer, records []model.Record) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tTITLE\tCATEGORY\tKIND\tAMOUNT\tSTATUS\tID")
	for i := range records {
		r := &records[i]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format("2006-01-02"),
			r.Title,
			r.Category,
			r.Kind,
			SignedText(ledger.SignedAmount(*r)),
			r.Status,
			r.ID,
		)
	}
	return w.Flush()
}

// RenderCards writes the wallet as an aligned table. The card with
// selectedID is marked.
func RenderCards(out io.Writer, cards []model.Card, selectedID string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tALIAS\tNETWORK\tNUMBER\tHOLDER\tEXPIRES\tBALANCE\tSTATE\tID")
	for i := range cards {
		c := &cards[i]
		marker := " "
		if c.ID == selectedID {
			marker = "*"
		}
		state := "active"
		if c.Frozen {
			state = LockIcon + " frozen"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t$%s\t%s\t%s\n",
			marker,
			c.Alias,
			c.Network,
			c.Number,
			c.Holder,
			c.Expiry,
			c.Balance.StringFixed(2),
			state,
			c.ID,
		)
	}
	return w.Flush()
}

// RenderTotals writes the dashboard figures and the category breakdown.
func RenderTotals(out io.Writer, summary ledger.Summary, totals ledger.Totals, shares []ledger.CategoryShare) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Records\t%d\n", summary.Count)
	_, _ = fmt.Fprintf(w, "Total amount\t$%s\n", summary.Total.StringFixed(2))
	_, _ = fmt.Fprintf(w, "Income\t%s\n", SignedText(totals.Income))
	_, _ = fmt.Fprintf(w, "Expenses\t%s\n", SignedText(totals.Expense.Neg()))
	_, _ = fmt.Fprintf(w, "Transfers\t$%s\n", totals.Transfer.StringFixed(2))
	_, _ = fmt.Fprintf(w, "Net\t%s\n", SignedText(totals.Net))
	_, _ = fmt.Fprintf(w, "Savings rate\t%s%%\n", totals.SavingsRate.StringFixed(1))

	if len(shares) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "CATEGORY\tCOUNT\tAMOUNT\tSHARE")
		for _, s := range shares {
			_, _ = fmt.Fprintf(w, "%s\t%d\t$%s\t%s%%\n", s.Category, s.Count, s.Amount.StringFixed(2), s.Percentage.StringFixed(1))
		}
	}
	return w.Flush()
}
