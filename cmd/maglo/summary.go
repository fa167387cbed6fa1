package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/Veraticus/maglo/internal/wallet"
	"github.com/spf13/cobra"
)

// dashboard is the JSON shape of the summary command.
type dashboard struct {
	Invoices   map[model.Kind]ledger.Summary `json:"invoices"`
	Summary    ledger.Summary                `json:"summary"`
	Totals     ledger.Totals                 `json:"totals"`
	Wallet     wallet.Stats                  `json:"wallet"`
	Categories []ledger.CategoryShare        `json:"categories"`
	Months     []ledger.MonthStat            `json:"months"`
}

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard totals, spending by category and the monthly trend",
		Example: `  maglo summary
  maglo summary --from 2023-10-01 --to 2023-10-31 --category Groceries`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}

	addFilterFlags(cmd, "kind", "Income, Expense or Transfer")
	cmd.Flags().Bool("json", false, "Print the dashboard as JSON")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	criteria, err := criteriaFromFlags(cmd, "kind")
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		transactions, err := store.GetRecords(ctx, model.CollectionTransactions)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		invoices, err := store.GetRecords(ctx, model.CollectionInvoices)
		if err != nil {
			return fmt.Errorf("failed to load invoices: %w", err)
		}
		stats, err := wallet.NewService(store, store).Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to load wallet: %w", err)
		}

		// Invoice statuses are not transaction kinds; only the other
		// filters apply to them.
		invoiceCriteria := criteria
		invoiceCriteria.Kind = model.AllKinds

		matched := ledger.Filter(transactions, criteria)
		d := dashboard{
			Summary:    ledger.Summarize(matched),
			Totals:     ledger.ComputeTotals(matched),
			Categories: ledger.Breakdown(matched, model.KindExpense),
			Months:     ledger.MonthlyTrend(matched, criteria.Location),
			Invoices:   ledger.ByKind(ledger.Filter(invoices, invoiceCriteria)),
			Wallet:     stats,
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, d)
		}

		_, _ = fmt.Fprintln(out, cli.TitleStyle.Render(cli.ChartIcon+" Dashboard"))
		if err := cli.RenderTotals(out, d.Summary, d.Totals, d.Categories); err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		if len(d.Months) > 0 {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSE")
			for _, m := range d.Months {
				_, _ = fmt.Fprintf(w, "%s\t$%s\t$%s\n", m.Label(), m.Income.StringFixed(2), m.Expense.StringFixed(2))
			}
		}

		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "INVOICES\tCOUNT\tAMOUNT")
		for _, k := range model.InvoiceKinds {
			if s, ok := d.Invoices[k]; ok {
				_, _ = fmt.Fprintf(w, "%s\t%d\t$%s\n", k, s.Count, s.Total.StringFixed(2))
			}
		}

		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "Cards\t%d active, %d frozen\n", stats.Active, stats.Frozen)
		_, _ = fmt.Fprintf(w, "Wallet balance\t$%s\n", stats.Balance.StringFixed(2))
		return w.Flush()
	})
}
