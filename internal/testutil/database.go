// Package testutil provides helpers for tests that need a seeded ledger
// database. Databases are in-memory, migrated, and closed when the test ends.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/Veraticus/maglo/internal/testutil/dataset"
)

// TestDB is a test database and the data it was seeded with.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Data    dataset.Data
}

// SetupTestDB creates a migrated in-memory database holding data.
//
// Example:
//
//	db := testutil.SetupTestDB(t, dataset.Data{Cards: fixtures.Cards()})
func SetupTestDB(t *testing.T, data dataset.Data) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Data: data})
}

// SetupTestDBWithBuilder creates a test database seeded by a dataset builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithBuilder(t, func(b dataset.Builder) dataset.Builder {
//		return b.WithFixture(dataset.FixtureDemo).WithFrozenCard("c2")
//	})
func SetupTestDBWithBuilder(t *testing.T, configure func(dataset.Builder) dataset.Builder) *TestDB {
	t.Helper()

	builder := dataset.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}

	db := SetupTestDBWithOptions(t, TestDBOptions{})
	data, err := builder.Build(context.Background(), db.Storage)
	if err != nil {
		t.Fatalf("failed to seed dataset: %v", err)
	}
	db.Data = data
	return db
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Data           dataset.Data
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if err := dataset.Seed(ctx, store, opts.Data); err != nil {
		t.Fatalf("failed to seed dataset: %v", err)
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		Data:    opts.Data,
		t:       t,
	}
}

// MustGetCard reads a card back from storage or fails the test.
func (db *TestDB) MustGetCard(id string) model.Card {
	db.t.Helper()
	card, err := db.Storage.GetCard(context.Background(), id)
	if err != nil {
		db.t.Fatalf("card %q: %v", id, err)
	}
	return *card
}

// MustGetRecords reads a collection back from storage or fails the test.
func (db *TestDB) MustGetRecords(collection model.Collection) []model.Record {
	db.t.Helper()
	records, err := db.Storage.GetRecords(context.Background(), collection)
	if err != nil {
		db.t.Fatalf("%s: %v", collection, err)
	}
	return records
}
