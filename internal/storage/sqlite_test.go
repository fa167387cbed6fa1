package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func recordIDs(records []model.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestSQLiteStorage_SaveAndGetRecords(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, fixtures.Transactions()))
	require.NoError(t, store.SaveRecords(ctx, fixtures.Invoices()))

	txns, err := store.GetRecords(ctx, model.CollectionTransactions)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}, recordIDs(txns))

	invoices, err := store.GetRecords(ctx, model.CollectionInvoices)
	require.NoError(t, err)
	assert.Equal(t, []string{"inv_004", "inv_002", "inv_001", "inv_003"}, recordIDs(invoices))

	all, err := store.GetRecords(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 11)
}

func TestSQLiteStorage_RecordRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	want := fixtures.Transactions()[4]
	require.NoError(t, store.SaveRecords(ctx, []model.Record{want}))

	got, err := store.GetRecord(ctx, want.ID)
	require.NoError(t, err)

	assert.True(t, want.Date.Equal(got.Date), "date %v != %v", want.Date, got.Date)
	assert.True(t, want.Amount.Equal(got.Amount), "amount %s != %s", want.Amount, got.Amount)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Kind, got.Kind)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Recipient, got.Recipient)
	assert.Equal(t, want.CardID, got.CardID)
}

func TestSQLiteStorage_SaveRecordsUpserts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	r := fixtures.Transactions()[0]
	require.NoError(t, store.SaveRecords(ctx, []model.Record{r}))

	r.Amount = decimal.RequireFromString("60.00")
	r.Notes = "price went up"
	require.NoError(t, store.SaveRecords(ctx, []model.Record{r}))

	count, err := store.CountRecords(ctx, model.CollectionTransactions)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetRecord(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "60", got.Amount.String())
	assert.Equal(t, "price went up", got.Notes)
}

func TestSQLiteStorage_SaveRecordsValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		wantErr error
		name    string
		records []model.Record
	}{
		{name: "nil slice", records: nil, wantErr: ErrNilParameter},
		{name: "empty slice", records: []model.Record{}, wantErr: ErrEmptySlice},
		{
			name: "negative amount",
			records: []model.Record{{
				ID: "bad", Title: "Bad", Kind: model.KindExpense,
				Amount: decimal.NewFromInt(-1), Date: time.Now(),
			}},
			wantErr: model.ErrNegativeAmount,
		},
		{
			name:    "missing id",
			records: []model.Record{{Title: "x", Kind: model.KindIncome, Date: time.Now()}},
			wantErr: model.ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveRecords(ctx, tt.records)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	count, err := store.CountRecords(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteStorage_SaveRecordsIsAtomic(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	records := fixtures.Transactions()
	records[6].Kind = "Bogus"
	require.Error(t, store.SaveRecords(ctx, records))

	count, err := store.CountRecords(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteStorage_DeleteRecord(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveRecords(ctx, fixtures.Transactions()))
	require.NoError(t, store.DeleteRecord(ctx, "t3"))

	_, err := store.GetRecord(ctx, "t3")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = store.DeleteRecord(ctx, "t3")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := store.CountRecords(ctx, model.CollectionTransactions)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestSQLiteStorage_Cards(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, c := range fixtures.Cards() {
		require.NoError(t, store.SaveCard(ctx, &c))
	}

	cards, err := store.GetCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "c1", cards[0].ID)
	assert.Equal(t, "c2", cards[1].ID)
	assert.True(t, decimal.RequireFromString("24500.80").Equal(cards[0].Balance))

	c1 := cards[0]
	c1.Frozen = true
	require.NoError(t, store.SaveCard(ctx, &c1))

	got, err := store.GetCard(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.Frozen)

	cards, err = store.GetCards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", cards[0].ID, "updating a card keeps its position")

	_, err = store.GetCard(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.SaveCard(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveCard(ctx, &model.Card{ID: "c9", Holder: "X", Network: "Amex"}), model.ErrInvalidRecord)
}

func TestSQLiteStorage_Preferences(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.GetPreference(ctx, "theme")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetPreference(ctx, "theme", "light"))
	require.NoError(t, store.SetPreference(ctx, "sidebar_open", "false"))
	require.NoError(t, store.SetPreference(ctx, "theme", "dark"))

	v, err := store.GetPreference(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	all, err := store.AllPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark", "sidebar_open": "false"}, all)

	assert.ErrorIs(t, store.SetPreference(ctx, "", "x"), ErrEmptyString)
	assert.ErrorIs(t, store.SetPreference(ctx, "two words", "x"), ErrInvalidPref)
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "maglo.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SaveRecords(ctx, fixtures.Invoices()))
	require.NoError(t, store.SetPreference(ctx, "theme", "light"))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate(ctx))

	count, err := store.CountRecords(ctx, model.CollectionInvoices)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	v, err := store.GetPreference(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SaveRecords(ctx, fixtures.Transactions()))

	count, err := store.CountRecords(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}
