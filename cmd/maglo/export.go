package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/common"
	"github.com/Veraticus/maglo/internal/config"
	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/sheets"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a ledger report to Google Sheets or CSV",
	}

	cmd.AddCommand(exportSheetsCmd())
	cmd.AddCommand(exportCSVCmd())

	return cmd
}

func addExportFlags(cmd *cobra.Command) {
	addFilterFlags(cmd, "kind", "Record kind, e.g. Expense or Overdue")
	cmd.Flags().String("collection", string(model.CollectionTransactions), "transactions or invoices")
	cmd.Flags().String("title", "", "Report title (default: Maglo <collection> report)")
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write the filtered ledger to a Google spreadsheet",
		Long: `Write the filtered ledger to a Google spreadsheet.

Credentials come from the sheets.* config keys or GOOGLE_SHEETS_* variables.
Run 'maglo auth sheets' once to store an OAuth2 refresh token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.ReadSheetsConfig()
			if needsRefreshToken(cfg) {
				if err := attachRefreshToken(cmd.Context(), &cfg); err != nil {
					return err
				}
			}

			writer, err := sheets.NewWriter(cmd.Context(), cfg, slog.Default())
			switch {
			case errors.Is(err, sheets.ErrNoCredentials):
				return common.NewUserError("Google Sheets is not configured; run 'maglo auth sheets' or set sheets.service_account_path", err)
			case err != nil:
				return common.NewUserError("Google Sheets is not configured correctly", err)
			}
			return runExport(cmd, writer)
		},
	}
	addExportFlags(cmd)
	return cmd
}

func exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Write the filtered ledger as CSV",
		Example: `  maglo export csv --output october.csv --from 2023-10-01 --to 2023-10-31
  maglo export csv --details-only --kind expense`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")
			detailsOnly, _ := cmd.Flags().GetBool("details-only")

			var out io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(config.ExpandPath(output)) //nolint:gosec // user chosen output path
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			writer := sheets.NewCSVWriter(out, slog.Default())
			writer.DetailsOnly = detailsOnly
			return runExport(cmd, writer)
		},
	}
	addExportFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Bool("details-only", false, "Only write the record rows")
	return cmd
}

func runExport(cmd *cobra.Command, writer sheets.ReportWriter) error {
	criteria, err := criteriaFromFlags(cmd, "kind")
	if err != nil {
		return err
	}
	rawCollection, _ := cmd.Flags().GetString("collection")
	collection := model.Collection(rawCollection)
	if collection != model.CollectionTransactions && collection != model.CollectionInvoices {
		return common.NewUserError(fmt.Sprintf("unknown --collection %q", rawCollection), common.ErrInvalidInput)
	}
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = fmt.Sprintf("Maglo %s report", collection)
	}

	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		records, err := store.GetRecords(ctx, collection)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", collection, err)
		}

		report := sheets.BuildReport(title, records, criteria)
		if err := writer.Write(ctx, report); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		slog.Info("Exported report",
			"title", report.Title,
			"records", report.Summary.Count,
			"range", report.RangeLabel())
		if _, isCSV := writer.(*sheets.CSVWriter); !isCSV {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Exported %d records (%s)", report.Summary.Count, ledger.Summarize(report.Records).Total.StringFixed(2))))
		}
		return nil
	})
}

// needsRefreshToken reports whether OAuth2 client credentials are set up
// without a refresh token to go with them.
func needsRefreshToken(cfg sheets.Config) bool {
	return !cfg.HasServiceAccount() && !cfg.HasOAuth() &&
		cfg.ClientID != "" && cfg.ClientSecret != ""
}

// attachRefreshToken fills in the refresh token from the saved token file,
// running the browser flow when there is none.
func attachRefreshToken(ctx context.Context, cfg *sheets.Config) error {
	token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    config.TokenPath(),
	})
	if err != nil {
		return fmt.Errorf("google sheets authentication failed: %w", err)
	}
	if token.RefreshToken == "" {
		return common.NewUserError("no refresh token available; run 'maglo auth sheets'", common.ErrMissingConfig)
	}
	cfg.RefreshToken = token.RefreshToken
	return nil
}
