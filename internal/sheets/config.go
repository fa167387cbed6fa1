// Package sheets exports ledger reports to Google Sheets and CSV.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/maglo/internal/common"
)

// Credential errors. Both wrap common.ErrMissingConfig or
// common.ErrInvalidConfig so callers can treat them as configuration
// problems.
var (
	ErrNoCredentials          = fmt.Errorf("%w: no Google credentials configured", common.ErrMissingConfig)
	ErrConflictingCredentials = fmt.Errorf("%w: both OAuth2 and service account credentials configured", common.ErrInvalidConfig)
)

// Config holds the Google Sheets export settings. Either the three OAuth2
// fields or ServiceAccountPath must be set, not both.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	// TimeZone is applied to spreadsheets the writer creates. Empty keeps
	// the account default.
	TimeZone         string
	BatchSize        int
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns the export defaults.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		SpreadsheetName:  "Maglo Ledger",
		BatchSize:        500,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// HasOAuth reports whether the OAuth2 client and refresh token are all set.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// HasServiceAccount reports whether a service account key is configured.
func (c *Config) HasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

// Validate checks credentials and limits.
func (c *Config) Validate() error {
	switch {
	case !c.HasOAuth() && !c.HasServiceAccount():
		return ErrNoCredentials
	case c.HasOAuth() && c.HasServiceAccount():
		return ErrConflictingCredentials
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("%w: time zone %q", common.ErrInvalidConfig, c.TimeZone)
		}
	}
	return nil
}
