// Package tui is the interactive terminal dashboard: a ledger browser for
// transactions and invoices and a wallet carousel.
package tui

import (
	"github.com/Veraticus/maglo/internal/service"
	"github.com/Veraticus/maglo/internal/session"
	"github.com/Veraticus/maglo/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Storage      service.Storage
	Session      *session.State
	Width        int
	Height       int
	MouseSupport bool
	AltScreen    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Dark,
		Width:        80,
		Height:       24,
		MouseSupport: true,
		AltScreen:    true,
	}
}

// WithStorage sets the storage service.
func WithStorage(storage service.Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithSession sets the application state. Its theme overrides WithTheme.
func WithSession(state *session.State) Option {
	return func(c *Config) {
		c.Session = state
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithMouse enables or disables mouse reporting.
func WithMouse(enabled bool) Option {
	return func(c *Config) {
		c.MouseSupport = enabled
	}
}

// WithAltScreen controls whether the program takes over the whole terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
