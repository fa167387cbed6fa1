package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema this build reads and writes. It is
// stored in PRAGMA user_version.
const ExpectedSchemaVersion = 4

// schemaStep moves the schema from version-1 to version.
type schemaStep struct {
	name       string
	statements []string
	version    int
}

var schemaSteps = []schemaStep{
	{
		version: 1,
		name:    "ledger records",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS records (
				id TEXT PRIMARY KEY,
				collection TEXT NOT NULL,
				title TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				amount TEXT NOT NULL,
				kind TEXT NOT NULL,
				date TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT '',
				recipient TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				payment_method TEXT NOT NULL DEFAULT '',
				card_id TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX idx_records_collection_date ON records(collection, date DESC)`,
			`CREATE INDEX idx_records_category ON records(category)`,
		},
	},
	{
		version: 2,
		name:    "wallet cards",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS cards (
				id TEXT PRIMARY KEY,
				holder TEXT NOT NULL,
				number TEXT NOT NULL,
				expiry TEXT NOT NULL DEFAULT '',
				network TEXT NOT NULL,
				variant TEXT NOT NULL DEFAULT '',
				alias TEXT NOT NULL DEFAULT '',
				balance TEXT NOT NULL DEFAULT '0',
				frozen INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX idx_records_card ON records(card_id)`,
		},
	},
	{
		version: 3,
		name:    "preferences",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS preferences (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: 4,
		name:    "backup metadata",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS backup_metadata (
				id TEXT PRIMARY KEY,
				created_at DATETIME NOT NULL,
				description TEXT,
				file_size INTEGER,
				row_counts TEXT,
				schema_version INTEGER,
				is_auto BOOLEAN DEFAULT 0
			)`,
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion. Each step commits
// together with its version bump, so an interrupted run resumes cleanly.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.migrateTo(ctx, ExpectedSchemaVersion); err != nil {
		return err
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != ExpectedSchemaVersion {
		return fmt.Errorf("database schema is version %d, this build expects %d", version, ExpectedSchemaVersion)
	}
	return nil
}

func (s *SQLiteStorage) migrateTo(ctx context.Context, target int) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, step := range schemaSteps {
		if step.version <= current || step.version > target {
			continue
		}
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range step.statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", step.version))
			return err
		})
		if err != nil {
			return fmt.Errorf("schema step %d (%s): %w", step.version, step.name, err)
		}
		slog.Debug("migrated schema", "version", step.version, "step", step.name)
	}
	return nil
}

// SchemaVersion reads PRAGMA user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
