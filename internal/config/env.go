package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default locations.
const (
	DefaultDatabasePath = "$HOME/.local/share/maglo/maglo.db"
	DefaultTokenPath    = "$HOME/.config/maglo/sheets-token.json"
)

// LoadDotEnv loads KEY=VALUE files into the process environment. Variables
// already set win over the file. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(ExpandPath(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// DatabasePath returns the configured database path with ~ and variables
// expanded.
func DatabasePath() string {
	p := viper.GetString("database.path")
	if p == "" {
		p = DefaultDatabasePath
	}
	return ExpandPath(p)
}

// TokenPath returns where the Google Sheets OAuth token is stored.
func TokenPath() string {
	p := viper.GetString("sheets.token_file")
	if p == "" {
		p = DefaultTokenPath
	}
	return ExpandPath(p)
}
