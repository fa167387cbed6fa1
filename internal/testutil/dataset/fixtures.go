package dataset

import (
	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/model"
)

// Fixture is a predefined set of test data.
type Fixture interface {
	// Name returns the fixture's descriptive name.
	Name() string

	// Records returns fresh copies of the fixture's records.
	Records() []model.Record

	// Cards returns fresh copies of the fixture's cards.
	Cards() []model.Card
}

// fixture implements the Fixture interface.
type fixture struct {
	name    string
	records func() []model.Record
	cards   func() []model.Card
}

func (f *fixture) Name() string { return f.name }

func (f *fixture) Records() []model.Record {
	if f.records == nil {
		return nil
	}
	return f.records()
}

func (f *fixture) Cards() []model.Card {
	if f.cards == nil {
		return nil
	}
	return f.cards()
}

// Predefined fixtures for common test scenarios.
var (
	// FixtureEmpty seeds nothing.
	FixtureEmpty Fixture = &fixture{name: "Empty"}

	// FixtureTransactions is the seven demo transactions.
	FixtureTransactions Fixture = &fixture{
		name:    "Transactions",
		records: fixtures.Transactions,
	}

	// FixtureWallet is the two demo cards.
	FixtureWallet Fixture = &fixture{
		name:  "Wallet",
		cards: fixtures.Cards,
	}

	// FixtureDemo is the whole demo ledger.
	FixtureDemo Fixture = &fixture{
		name:    "Demo",
		records: func() []model.Record { return Demo().Records },
		cards:   fixtures.Cards,
	}
)

// AllFixtures returns every predefined fixture.
func AllFixtures() []Fixture {
	return []Fixture{FixtureEmpty, FixtureTransactions, FixtureWallet, FixtureDemo}
}
