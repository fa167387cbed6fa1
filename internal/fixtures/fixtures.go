// Package fixtures provides the bundled demo ledger and JSON record decoding.
package fixtures

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/maglo/internal/model"
)

//go:embed data/*.json
var data embed.FS

// Transactions returns the demo transactions t1 through t7, newest first.
func Transactions() []model.Record {
	return mustRecords("data/transactions.json")
}

// Invoices returns the demo invoices.
func Invoices() []model.Record {
	return mustRecords("data/invoices.json")
}

// Cards returns the demo wallet cards.
func Cards() []model.Card {
	raw, err := data.ReadFile("data/cards.json")
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	var cards []model.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		panic(fmt.Sprintf("fixtures: decode cards: %v", err))
	}
	return cards
}

// DecodeRecords reads a JSON array of records and validates each one.
func DecodeRecords(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return records, nil
}

// EncodeRecords writes records as an indented JSON array.
func EncodeRecords(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// mustRecords decodes an embedded file. Embedded data is fixed at build
// time, so a decode failure is a programming error.
func mustRecords(name string) []model.Record {
	raw, err := data.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("fixtures: %v", err))
	}
	records, err := DecodeRecords(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("fixtures: %s: %v", name, err))
	}
	return records
}
