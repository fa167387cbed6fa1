package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/common"
	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/session"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/Veraticus/maglo/internal/wallet"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Browse and record transactions",
	}

	cmd.AddCommand(listRecordsCmd(model.CollectionTransactions))
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(categoriesCmd())

	return cmd
}

func invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Browse invoices",
	}

	cmd.AddCommand(listRecordsCmd(model.CollectionInvoices))

	return cmd
}

func listRecordsCmd(collection model.Collection) *cobra.Command {
	kindFlag, kindHelp := "kind", "Income, Expense or Transfer"
	example := `  maglo transactions list --kind expense --category Entertainment
  maglo transactions list --search netflix --from 2023-10-01 --to 2023-10-31
  maglo transactions list --sort amount --limit 5`
	if collection == model.CollectionInvoices {
		kindFlag, kindHelp = "status", "Draft, Pending (or unpaid), Paid, Overdue or Cancelled"
		example = `  maglo invoices list --status unpaid
  maglo invoices list --search design --json`
	}

	cmd := &cobra.Command{
		Use:     "list",
		Short:   fmt.Sprintf("List %s matching the given filters", collection),
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListRecords(cmd, collection, kindFlag)
		},
	}

	addFilterFlags(cmd, kindFlag, kindHelp)
	cmd.Flags().String("sort", "date", "Sort by date, amount or title")
	cmd.Flags().Bool("asc", false, "Sort ascending instead of descending")
	cmd.Flags().Int("limit", 0, "Show at most this many records (0 for all)")
	cmd.Flags().Int("offset", 0, "Skip this many records")
	cmd.Flags().Bool("json", false, "Print records as JSON")

	return cmd
}

func runListRecords(cmd *cobra.Command, collection model.Collection, kindFlag string) error {
	criteria, err := criteriaFromFlags(cmd, kindFlag)
	if err != nil {
		return err
	}
	if criteria.Kind != model.AllKinds && collectionOf(criteria.Kind) != collection {
		return common.NewUserError(fmt.Sprintf("%s is not a valid --%s for %s", criteria.Kind, kindFlag, collection), common.ErrInvalidInput)
	}

	rawSort, _ := cmd.Flags().GetString("sort")
	field, err := ledger.ParseSortField(rawSort)
	if err != nil {
		return common.NewUserError("invalid --sort", err)
	}
	asc, _ := cmd.Flags().GetBool("asc")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	asJSON, _ := cmd.Flags().GetBool("json")

	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		records, err := store.GetRecords(ctx, collection)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", collection, err)
		}

		out := cmd.OutOrStdout()
		matched := ledger.Filter(records, criteria)
		if len(matched) == 0 {
			warnUnknownCategory(out, records, criteria.Category)
		}
		page := ledger.Paginate(ledger.Sort(matched, ledger.SortOptions{Field: field, Descending: !asc}), offset, limit)

		if asJSON {
			return printJSON(out, page)
		}
		if len(page) == 0 {
			_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No %s match the current filters.", collection)))
			return nil
		}
		if err := cli.RenderRecords(out, page); err != nil {
			return err
		}

		summary := ledger.Summarize(matched)
		_, _ = fmt.Fprintf(out, "\nShowing %d of %d matching (%d total) · Total $%s\n",
			len(page), summary.Count, len(records), summary.Total.StringFixed(2))
		return nil
	})
}

func collectionOf(kind model.Kind) model.Collection {
	r := model.Record{Kind: kind}
	return r.Collection()
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories used by transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				records, err := store.GetRecords(ctx, model.CollectionTransactions)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, c := range ledger.ListCategories(records) {
					_, _ = fmt.Fprintln(out, c)
				}
				return nil
			})
		},
	}
}

func addTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction paid with a wallet card",
		Long: `Record a transaction paid with a wallet card.

Missing values are asked for interactively. The card defaults to the card
selected in the wallet.`,
		Example: `  maglo transactions add --title "Blue Bottle" --amount 4.50 --category Dining
  maglo transactions add --kind income --title Refund --amount 20 --category Shopping --card c2`,
		Args: cobra.NoArgs,
		RunE: runAddTransaction,
	}

	cmd.Flags().String("title", "", "Transaction title")
	cmd.Flags().String("amount", "", "Amount (positive)")
	cmd.Flags().String("category", "", "Category")
	cmd.Flags().String("kind", "expense", "Income, Expense or Transfer")
	cmd.Flags().String("card", "", "Card ID (default: selected card)")
	cmd.Flags().String("date", "", "Date (YYYY-MM-DD, default: now)")
	cmd.Flags().String("notes", "", "Notes")

	return cmd
}

func runAddTransaction(cmd *cobra.Command, _ []string) error {
	title, _ := cmd.Flags().GetString("title")
	rawAmount, _ := cmd.Flags().GetString("amount")
	category, _ := cmd.Flags().GetString("category")
	rawKind, _ := cmd.Flags().GetString("kind")
	cardID, _ := cmd.Flags().GetString("card")
	rawDate, _ := cmd.Flags().GetString("date")
	notes, _ := cmd.Flags().GetString("notes")

	kind, err := model.ParseKind(rawKind)
	if err != nil || !kind.IsTransactionKind() {
		return common.NewUserError(fmt.Sprintf("invalid --kind %q", rawKind), common.ErrInvalidInput)
	}

	var date time.Time
	if rawDate != "" {
		loc, err := location()
		if err != nil {
			return err
		}
		day, ok := ledger.ParseDay(rawDate, loc)
		if !ok {
			return common.NewUserError(fmt.Sprintf("invalid --date %q", rawDate), common.ErrInvalidInput)
		}
		date = day
	}

	return withState(cmd, func(ctx context.Context, store *storage.SQLiteStorage, state *session.State) error {
		prompter := newPrompter(cmd)

		if strings.TrimSpace(title) == "" {
			if title, err = prompter.AskRequired(ctx, "Title"); err != nil {
				return err
			}
		}

		var amount decimal.Decimal
		if rawAmount == "" {
			if amount, err = prompter.AskAmount(ctx, "Amount"); err != nil {
				return err
			}
		} else if amount, err = decimal.NewFromString(strings.TrimPrefix(rawAmount, "$")); err != nil {
			return common.NewUserError(fmt.Sprintf("invalid --amount %q", rawAmount), err)
		}

		if category == "" {
			records, err := store.GetRecords(ctx, model.CollectionTransactions)
			if err != nil {
				return err
			}
			if category, err = prompter.AskCategory(ctx, ledger.ListCategories(records)); err != nil {
				return err
			}
		}

		if cardID == "" {
			cardID = state.Snapshot().SelectedCardID
		}

		record, err := wallet.NewService(store, store).AddTransaction(ctx, wallet.NewTransaction{
			Date:     date,
			Amount:   amount,
			Title:    title,
			Category: category,
			CardID:   cardID,
			Notes:    notes,
			Kind:     kind,
		})
		if err != nil {
			return err
		}

		common.LogInfo("Recorded transaction", common.Fields{"id": record.ID, "card": record.CardID})
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (%s)",
			record.Title, cli.FormatAmount(ledger.SignedAmount(*record)), record.ID)))
		return nil
	})
}
