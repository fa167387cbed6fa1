package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/maglo/internal/cli"
	"github.com/Veraticus/maglo/internal/common"
	"github.com/Veraticus/maglo/internal/config"
	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/session"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// withStorage runs fn against an open database and closes it afterwards.
func withStorage(cmd *cobra.Command, fn func(ctx context.Context, store *storage.SQLiteStorage) error) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}()
	return fn(ctx, store)
}

// withState is withStorage plus the persisted application state.
func withState(cmd *cobra.Command, fn func(ctx context.Context, store *storage.SQLiteStorage, state *session.State) error) error {
	return withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		state, err := session.Load(ctx, store)
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		return fn(ctx, store, state)
	})
}

// location returns the zone used to resolve day bounds in filters.
func location() (*time.Location, error) {
	tz := viper.GetString("locale.timezone")
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("unknown time zone %q in locale.timezone", tz), err)
	}
	return loc, nil
}

// addFilterFlags registers the flags shared by every ledger query.
func addFilterFlags(cmd *cobra.Command, kindFlag, kindHelp string) {
	cmd.Flags().StringP("search", "s", "", "Match title or recipient (case-insensitive)")
	cmd.Flags().StringP(kindFlag, "k", "", kindHelp)
	cmd.Flags().StringP("category", "c", "", "Exact category name")
	cmd.Flags().String("from", "", "Earliest day, inclusive (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest day, inclusive (YYYY-MM-DD)")
}

// criteriaFromFlags builds query criteria from the shared filter flags.
func criteriaFromFlags(cmd *cobra.Command, kindFlag string) (ledger.Criteria, error) {
	search, _ := cmd.Flags().GetString("search")
	rawKind, _ := cmd.Flags().GetString(kindFlag)
	category, _ := cmd.Flags().GetString("category")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	kind, err := model.ParseKind(rawKind)
	if err != nil {
		return ledger.Criteria{}, common.NewUserError(fmt.Sprintf("invalid --%s", kindFlag), err)
	}

	for _, bound := range []struct{ flag, value string }{{"from", from}, {"to", to}} {
		if bound.value == "" {
			continue
		}
		if _, ok := ledger.ParseDay(bound.value, time.UTC); !ok {
			slog.Warn("Ignoring unparseable date bound", "flag", bound.flag, "value", bound.value)
		}
	}

	loc, err := location()
	if err != nil {
		return ledger.Criteria{}, err
	}

	return ledger.Criteria{
		Location: loc,
		Search:   search,
		Kind:     kind,
		Category: category,
		Start:    from,
		End:      to,
	}, nil
}

// warnUnknownCategory points at the closest existing category when the
// filter names one that does not exist.
func warnUnknownCategory(out io.Writer, records []model.Record, category string) {
	if category == "" || category == ledger.All {
		return
	}
	categories := ledger.ListCategories(records)
	for _, c := range categories {
		if c == category {
			return
		}
	}
	if hint, ok := ledger.Suggest(categories, category); ok {
		_, _ = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("No category %q. Did you mean %q?", category, hint)))
		return
	}
	_, _ = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("No category %q.", category)))
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// expandFiles resolves glob patterns to existing files.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(config.ExpandPath(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// newPrompter reads answers from the command's input.
func newPrompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}
