package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func buildConfig(opts []Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New builds the dashboard model without starting a program.
func New(ctx context.Context, opts ...Option) Model {
	return newModel(ctx, buildConfig(opts))
}

// Run shows the dashboard until the user quits or ctx ends.
func Run(ctx context.Context, opts ...Option) error {
	cfg := buildConfig(opts)
	if cfg.Storage == nil {
		return errors.New("tui: no storage configured")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if cfg.MouseSupport {
		// Cell motion reports drags, which the card carousel needs.
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(newModel(ctx, cfg), programOpts...).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
