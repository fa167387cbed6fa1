package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/common"
	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/ofx"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/spf13/cobra"
)

// importBatchSize bounds how many records are written per transaction.
const importBatchSize = 200

// recordParser turns one input file into records.
type recordParser func(ctx context.Context, r io.Reader) ([]model.Record, error)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import records from bank statements or JSON files",
	}

	parser := ofx.NewParser()
	cmd.AddCommand(importSubCmd(
		"ofx <files...>",
		"Import transactions from OFX/QFX files",
		`Import financial transactions from OFX or QFX (Quicken) files exported from your bank.

Examples:
  # Import a single file
  maglo import ofx ~/Downloads/checking_jan.qfx

  # Import every statement in a directory
  maglo import ofx ~/Downloads/*.qfx`,
		parser.ParseFile,
	))
	cmd.AddCommand(importSubCmd(
		"json <files...>",
		"Import transactions and invoices from JSON files",
		`Import records from JSON arrays shaped like the bundled demo data.

Each record needs an id, title, category, amount, date and kind. Invoice
kinds (Draft, Pending, Paid, Overdue, Cancelled) land in the invoices list.`,
		func(_ context.Context, r io.Reader) ([]model.Record, error) {
			return fixtures.DecodeRecords(r)
		},
	))

	return cmd
}

func importSubCmd(use, short, long string, parse recordParser) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, parse)
		},
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().Bool("no-backup", false, "Skip the automatic backup taken before importing")

	return cmd
}

func runImport(cmd *cobra.Command, patterns []string, parse recordParser) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noBackup, _ := cmd.Flags().GetBool("no-backup")

	files, err := expandFiles(patterns)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	handler := cli.NewInterruptHandler(out, "Import")
	if !dryRun && !noBackup {
		handler.Undo = "maglo backup restore"
	}
	ctx := handler.HandleInterrupts(cmd.Context())

	records, err := parseFiles(ctx, out, files, parse)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		slog.Warn("No records found in any file")
		return nil
	}

	if dryRun {
		if err := cli.RenderRecords(out, records); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d records would be imported", len(records))))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if !noBackup {
		if err := autoBackup(ctx, store, "import"); err != nil {
			return err
		}
	}

	saved, err := saveInBatches(ctx, out, store, records)
	if handler.WasInterrupted() {
		return common.NewUserError(fmt.Sprintf("import interrupted after %d of %d records", saved, len(records)), ctx.Err())
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d records from %d files", saved, len(files))))
	return nil
}

// parseFiles reads every file, dropping records whose ID was already seen.
func parseFiles(ctx context.Context, out io.Writer, files []string, parse recordParser) ([]model.Record, error) {
	bar := cli.NewProgressBar(out, len(files), "Reading files")
	seen := make(map[string]bool)
	var records []model.Record

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parsed, err := parseFile(ctx, path, parse)
		_ = bar.Add(1)
		if err != nil {
			common.LogError(err, "Failed to parse file", common.Fields{"file": filepath.Base(path)})
			continue
		}

		added := 0
		for _, r := range parsed {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			records = append(records, r)
			added++
		}
		common.LogDebug("Processed file", common.Fields{
			"file":       filepath.Base(path),
			"found":      len(parsed),
			"added":      added,
			"duplicates": len(parsed) - added,
		})
	}
	return records, nil
}

func parseFile(ctx context.Context, path string, parse recordParser) ([]model.Record, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from the user's command line
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parse(ctx, f)
}

// saveInBatches writes records and returns how many were saved.
func saveInBatches(ctx context.Context, out io.Writer, store *storage.SQLiteStorage, records []model.Record) (int, error) {
	bar := cli.NewProgressBar(out, len(records), "Saving records")
	saved := 0
	for start := 0; start < len(records); start += importBatchSize {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		end := min(start+importBatchSize, len(records))
		if err := store.SaveRecords(ctx, records[start:end]); err != nil {
			return saved, fmt.Errorf("failed to save records: %w", err)
		}
		saved += end - start
		_ = bar.Add(end - start)
	}
	return saved, nil
}

func autoBackup(ctx context.Context, store *storage.SQLiteStorage, operation string) error {
	manager, err := store.NewBackupManager()
	if err != nil {
		return fmt.Errorf("failed to prepare backup: %w", err)
	}
	if err := manager.AutoBackup(ctx, operation); err != nil {
		return err
	}
	return nil
}
