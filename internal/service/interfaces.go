// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/maglo/internal/model"
)

// RecordStore persists ledger records.
type RecordStore interface {
	SaveRecords(ctx context.Context, records []model.Record) error
	GetRecords(ctx context.Context, collection model.Collection) ([]model.Record, error)
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	CountRecords(ctx context.Context, collection model.Collection) (int, error)
}

// CardStore persists wallet cards.
type CardStore interface {
	SaveCard(ctx context.Context, card *model.Card) error
	GetCards(ctx context.Context) ([]model.Card, error)
	GetCard(ctx context.Context, id string) (*model.Card, error)
}

// PreferenceStore persists user preferences as key/value pairs.
type PreferenceStore interface {
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
	AllPreferences(ctx context.Context) (map[string]string, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	RecordStore
	CardStore
	PreferenceStore

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
