// Package storage keeps the ledger, wallet and preferences in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStorage implements service.Storage on a single SQLite connection.
type SQLiteStorage struct {
	db        *sql.DB
	prefCache map[string]string
	dbPath    string
	cacheMu   sync.RWMutex
}

// dsn enables WAL and a busy timeout for file databases.
func dsn(path string) string {
	if path == MemoryPath {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}

// NewSQLiteStorage opens the database at dbPath, creating its directory.
// Call Migrate before use.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}
	// One connection: writers never contend, and an in-memory database
	// lives only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}
	return &SQLiteStorage{db: db, dbPath: dbPath, prefCache: map[string]string{}}, nil
}

// Close releases the connection.
func (s *SQLiteStorage) Close() error { return s.db.Close() }

// Path is the database file, or MemoryPath.
func (s *SQLiteStorage) Path() string { return s.dbPath }

// NewBackupManager manages snapshots stored next to the database file.
func (s *SQLiteStorage) NewBackupManager() (*BackupManager, error) {
	return NewBackupManager(s.db, s.dbPath)
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
