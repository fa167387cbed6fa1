package config

import (
	"os"

	"github.com/Veraticus/maglo/internal/sheets"
	"github.com/spf13/viper"
)

// sheetsSetting binds one sheets.Config field to its config key and the
// GOOGLE_SHEETS_* variable used when the key is unset.
type sheetsSetting struct {
	key   string
	env   string
	path  bool
	field func(*sheets.Config) *string
}

var sheetsSettings = []sheetsSetting{
	{key: "sheets.service_account_path", env: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", path: true,
		field: func(c *sheets.Config) *string { return &c.ServiceAccountPath }},
	{key: "sheets.client_id", env: "GOOGLE_SHEETS_CLIENT_ID",
		field: func(c *sheets.Config) *string { return &c.ClientID }},
	{key: "sheets.client_secret", env: "GOOGLE_SHEETS_CLIENT_SECRET",
		field: func(c *sheets.Config) *string { return &c.ClientSecret }},
	{key: "sheets.refresh_token", env: "GOOGLE_SHEETS_REFRESH_TOKEN",
		field: func(c *sheets.Config) *string { return &c.RefreshToken }},
	{key: "sheets.spreadsheet_id", env: "GOOGLE_SHEETS_SPREADSHEET_ID",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetID }},
	{key: "sheets.spreadsheet_name", env: "GOOGLE_SHEETS_SPREADSHEET_NAME",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetName }},
	{key: "sheets.time_zone", env: "GOOGLE_SHEETS_TIME_ZONE",
		field: func(c *sheets.Config) *string { return &c.TimeZone }},
}

// LoadSheetsConfig resolves the export settings and validates them.
func LoadSheetsConfig() (*sheets.Config, error) {
	config := ReadSheetsConfig()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ReadSheetsConfig resolves the export settings without validating them.
// Config file keys (or MAGLO_SHEETS_* variables) win, then GOOGLE_SHEETS_*
// variables, then defaults. A spreadsheet time zone falls back to
// locale.timezone.
func ReadSheetsConfig() sheets.Config {
	config := sheets.DefaultConfig()

	for _, s := range sheetsSettings {
		v := viper.GetString(s.key)
		if v == "" {
			v = os.Getenv(s.env)
		}
		if v == "" {
			continue
		}
		if s.path {
			v = ExpandPath(v)
		}
		*s.field(&config) = v
	}

	if config.TimeZone == "" {
		config.TimeZone = viper.GetString("locale.timezone")
	}
	if n := viper.GetInt("sheets.batch_size"); n > 0 {
		config.BatchSize = n
	}
	if viper.IsSet("sheets.formatting") {
		config.EnableFormatting = viper.GetBool("sheets.formatting")
	}
	return config
}
