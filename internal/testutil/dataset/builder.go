// Package dataset builds ledger records and wallet cards for tests. It
// offers a fluent API for seeding storage with the demo ledger, a subset
// of it, or hand-made records.
//
// Example usage:
//
//	data, err := dataset.NewBuilder(t).
//		WithFixture(dataset.FixtureDemo).
//		WithRecord(dataset.Expense("x1", "Cinema", "Entertainment", "18.00", day)).
//		Build(ctx, store)
package dataset

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/shopspring/decimal"
)

// Store is the part of storage a dataset is written to.
type Store interface {
	SaveRecords(ctx context.Context, records []model.Record) error
	SaveCard(ctx context.Context, card *model.Card) error
}

// Builder provides a fluent interface for assembling test data.
type Builder interface {
	// WithRecord adds a single record, replacing any earlier record with
	// the same ID.
	WithRecord(r model.Record) Builder

	// WithRecords adds several records.
	WithRecords(records ...model.Record) Builder

	// WithCard adds a wallet card, replacing any earlier card with the
	// same ID.
	WithCard(c model.Card) Builder

	// WithFixture adds everything a predefined fixture contains.
	WithFixture(fixture Fixture) Builder

	// WithFrozenCard marks an already added card as frozen.
	WithFrozenCard(id string) Builder

	// Data returns the assembled data without writing it anywhere.
	Data() Data

	// Build writes the data to storage and returns it.
	Build(ctx context.Context, store Store) (Data, error)
}

// Data is a set of records and cards.
type Data struct {
	Records []model.Record
	Cards   []model.Card
}

// Find returns the record with the given ID, or nil if not found.
func (d Data) Find(id string) *model.Record {
	for i := range d.Records {
		if d.Records[i].ID == id {
			return &d.Records[i]
		}
	}
	return nil
}

// MustFind returns the record with the given ID or fails the test.
func (d Data) MustFind(t *testing.T, id string) model.Record {
	t.Helper()
	r := d.Find(id)
	if r == nil {
		t.Fatalf("record %q not found in test data", id)
	}
	return *r
}

// Card returns the card with the given ID, or nil if not found.
func (d Data) Card(id string) *model.Card {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return &d.Cards[i]
		}
	}
	return nil
}

// Collection returns the records belonging to c, in insertion order.
func (d Data) Collection(c model.Collection) []model.Record {
	var out []model.Record
	for i := range d.Records {
		if d.Records[i].Collection() == c {
			out = append(out, d.Records[i])
		}
	}
	return out
}

// Seed writes data to store.
func Seed(ctx context.Context, store Store, data Data) error {
	if len(data.Records) > 0 {
		if err := store.SaveRecords(ctx, data.Records); err != nil {
			return fmt.Errorf("failed to seed records: %w", err)
		}
	}
	for i := range data.Cards {
		if err := store.SaveCard(ctx, &data.Cards[i]); err != nil {
			return fmt.Errorf("failed to seed card %s: %w", data.Cards[i].ID, err)
		}
	}
	return nil
}

// builder implements the Builder interface.
type builder struct {
	t           *testing.T
	recordIndex map[string]int
	cardIndex   map[string]int
	data        Data
}

// NewBuilder creates a new dataset builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &builder{
		t:           t,
		recordIndex: make(map[string]int),
		cardIndex:   make(map[string]int),
	}
}

func (b *builder) WithRecord(r model.Record) Builder {
	b.t.Helper()
	if err := r.Validate(); err != nil {
		b.t.Fatalf("invalid test record: %v", err)
	}
	if pos, ok := b.recordIndex[r.ID]; ok {
		b.data.Records[pos] = r
		return b
	}
	b.recordIndex[r.ID] = len(b.data.Records)
	b.data.Records = append(b.data.Records, r)
	return b
}

func (b *builder) WithRecords(records ...model.Record) Builder {
	b.t.Helper()
	for _, r := range records {
		b.WithRecord(r)
	}
	return b
}

func (b *builder) WithCard(c model.Card) Builder {
	b.t.Helper()
	if err := c.Validate(); err != nil {
		b.t.Fatalf("invalid test card: %v", err)
	}
	if pos, ok := b.cardIndex[c.ID]; ok {
		b.data.Cards[pos] = c
		return b
	}
	b.cardIndex[c.ID] = len(b.data.Cards)
	b.data.Cards = append(b.data.Cards, c)
	return b
}

func (b *builder) WithFixture(fixture Fixture) Builder {
	b.t.Helper()
	b.WithRecords(fixture.Records()...)
	for _, c := range fixture.Cards() {
		b.WithCard(c)
	}
	return b
}

func (b *builder) WithFrozenCard(id string) Builder {
	b.t.Helper()
	pos, ok := b.cardIndex[id]
	if !ok {
		b.t.Fatalf("cannot freeze card %q: not added", id)
	}
	b.data.Cards[pos].Frozen = true
	return b
}

func (b *builder) Data() Data {
	out := Data{
		Records: make([]model.Record, len(b.data.Records)),
		Cards:   make([]model.Card, len(b.data.Cards)),
	}
	copy(out.Records, b.data.Records)
	copy(out.Cards, b.data.Cards)
	return out
}

func (b *builder) Build(ctx context.Context, store Store) (Data, error) {
	data := b.Data()
	if err := Seed(ctx, store, data); err != nil {
		return Data{}, err
	}
	return data, nil
}

// Record creates a valid record of the given kind. Amount must be a
// decimal literal.
func Record(id string, kind model.Kind, title, category, amount string, date time.Time) model.Record {
	r := model.Record{
		ID:       id,
		Title:    title,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
		Kind:     kind,
	}
	if kind.IsTransactionKind() {
		r.Status = model.StatusCompleted
	}
	return r
}

// Expense creates an expense record.
func Expense(id, title, category, amount string, date time.Time) model.Record {
	return Record(id, model.KindExpense, title, category, amount, date)
}

// Income creates an income record.
func Income(id, title, category, amount string, date time.Time) model.Record {
	return Record(id, model.KindIncome, title, category, amount, date)
}

// Demo returns a copy of the bundled demo data: transactions, invoices and
// cards.
func Demo() Data {
	return Data{
		Records: append(fixtures.Transactions(), fixtures.Invoices()...),
		Cards:   fixtures.Cards(),
	}
}
