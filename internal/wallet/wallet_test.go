package wallet

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/storage"
	"github.com/Veraticus/maglo/internal/testutil"
	"github.com/Veraticus/maglo/internal/testutil/dataset"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *storage.SQLiteStorage) {
	t.Helper()
	db := testutil.SetupTestDBWithBuilder(t, func(b dataset.Builder) dataset.Builder {
		return b.WithFixture(dataset.FixtureWallet)
	})

	svc := NewService(db.Storage, db.Storage)
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC) }
	return svc, db.Storage
}

func TestService_AddCard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	card, err := svc.AddCard(ctx, NewCard{
		Number:  "4111 1111 1111 1234",
		Holder:  " Jane Doe ",
		Expiry:  "0927",
		Network: model.NetworkMasterCard,
		Alias:   "Travel",
		Balance: decimal.RequireFromString("150.25"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(card.ID, "card_"))
	assert.Equal(t, "**** **** **** 1234", card.Number)
	assert.Equal(t, "09/27", card.Expiry)
	assert.Equal(t, "Jane Doe", card.Holder)
	assert.Equal(t, "MasterCard •••• 1234", card.Label())

	cards, err := svc.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, card.ID, cards[2].ID)
}

func TestService_AddCardValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	valid := NewCard{Number: "1234", Holder: "A", Expiry: "12/30", Alias: "x", Balance: decimal.Zero}

	tests := []struct {
		mutate  func(*NewCard)
		wantErr error
		name    string
	}{
		{name: "missing number", mutate: func(c *NewCard) { c.Number = "  " }, wantErr: ErrMissingField},
		{name: "missing holder", mutate: func(c *NewCard) { c.Holder = "" }, wantErr: ErrMissingField},
		{name: "missing alias", mutate: func(c *NewCard) { c.Alias = "" }, wantErr: ErrMissingField},
		{name: "missing expiry", mutate: func(c *NewCard) { c.Expiry = "" }, wantErr: ErrMissingField},
		{name: "bad month", mutate: func(c *NewCard) { c.Expiry = "13/30" }, wantErr: ErrInvalidExpiry},
		{name: "negative balance", mutate: func(c *NewCard) { c.Balance = decimal.NewFromInt(-1) }, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := svc.AddCard(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	card, err := svc.AddCard(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, model.NetworkVisa, card.Network, "network defaults to Visa")
}

func TestService_ToggleFreezeAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Zero(t, stats.Frozen)

	card, err := svc.ToggleFreeze(ctx, "c2")
	require.NoError(t, err)
	assert.True(t, card.Frozen)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Frozen)

	card, err = svc.ToggleFreeze(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, card.Frozen)

	_, err = svc.ToggleFreeze(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_AddTransaction(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	r, err := svc.AddTransaction(ctx, NewTransaction{
		Title:    "Groceries run",
		Category: "Groceries",
		Amount:   decimal.RequireFromString("42.10"),
		CardID:   "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, r.Kind)
	assert.Equal(t, model.StatusCompleted, r.Status)
	assert.Equal(t, "c1", r.CardID)
	assert.Equal(t, 2024, r.Date.Year())

	stored, err := store.GetRecord(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.PaymentMethod, stored.PaymentMethod)
}

func TestService_AddTransactionValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ToggleFreeze(ctx, "c2")
	require.NoError(t, err)

	valid := NewTransaction{Title: "T", Category: "C", Amount: decimal.NewFromInt(1), CardID: "c1"}

	tests := []struct {
		mutate  func(*NewTransaction)
		wantErr error
		name    string
	}{
		{name: "missing title", mutate: func(n *NewTransaction) { n.Title = "" }, wantErr: ErrMissingField},
		{name: "missing category", mutate: func(n *NewTransaction) { n.Category = " " }, wantErr: ErrMissingField},
		{name: "missing card", mutate: func(n *NewTransaction) { n.CardID = "" }, wantErr: ErrMissingField},
		{name: "zero amount", mutate: func(n *NewTransaction) { n.Amount = decimal.Zero }, wantErr: ErrInvalidAmount},
		{name: "invoice kind", mutate: func(n *NewTransaction) { n.Kind = model.KindPaid }, wantErr: model.ErrUnknownKind},
		{name: "unknown card", mutate: func(n *NewTransaction) { n.CardID = "c9" }, wantErr: storage.ErrNotFound},
		{name: "frozen card", mutate: func(n *NewTransaction) { n.CardID = "c2" }, wantErr: ErrCardFrozen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := svc.AddTransaction(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormatExpiry(t *testing.T) {
	got, err := FormatExpiry("1/2/2/9")
	require.NoError(t, err)
	assert.Equal(t, "12/29", got)

	_, err = FormatExpiry("123")
	assert.ErrorIs(t, err, ErrInvalidExpiry)

	_, err = FormatExpiry("00/25")
	assert.ErrorIs(t, err, ErrInvalidExpiry)
}
