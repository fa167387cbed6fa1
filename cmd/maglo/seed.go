package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo transactions, invoices and cards",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}
	cmd.Flags().Bool("force", false, "Seed even when the database already has records")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		out := cmd.OutOrStdout()
		if !force {
			existing, err := store.CountRecords(ctx, model.CollectionTransactions)
			if err != nil {
				return err
			}
			if existing > 0 {
				_, _ = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Database already has %d transactions; use --force to seed anyway", existing)))
				return nil
			}
		}

		transactions := fixtures.Transactions()
		invoices := fixtures.Invoices()
		if err := store.SaveRecords(ctx, append(transactions, invoices...)); err != nil {
			return fmt.Errorf("failed to save demo records: %w", err)
		}
		cards := fixtures.Cards()
		for i := range cards {
			if err := store.SaveCard(ctx, &cards[i]); err != nil {
				return fmt.Errorf("failed to save demo card: %w", err)
			}
		}

		_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Seeded %d transactions, %d invoices and %d cards",
			len(transactions), len(invoices), len(cards))))
		return nil
	})
}
