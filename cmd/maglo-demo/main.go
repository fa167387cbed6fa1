// Package main runs the dashboard against an in-memory copy of the demo ledger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/Veraticus/maglo/internal/tui"
)

func main() {
	if err := run(context.Background()); err != nil {
		// Use explicit error check to satisfy forbidigo
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if err := store.SaveRecords(ctx, append(fixtures.Transactions(), fixtures.Invoices()...)); err != nil {
		return err
	}
	for _, card := range fixtures.Cards() {
		if err := store.SaveCard(ctx, &card); err != nil {
			return err
		}
	}

	return tui.Run(ctx, tui.WithStorage(store), tui.WithSize(120, 40))
}
