// Package session holds the application state shared by the CLI and the
// TUI: theme, sidebar, selected card and the authenticated flag.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/service"
)

// Preference keys.
const (
	KeyTheme         = "theme"
	KeyAuthenticated = "authenticated"
	KeySelectedCard  = "selected_card"
	KeySidebarOpen   = "sidebar_open"
)

// ErrUnknownTheme is returned for theme names other than dark and light.
var ErrUnknownTheme = errors.New("unknown theme")

// State is the application state. It is safe for concurrent use.
type State struct {
	store service.PreferenceStore
	prefs model.Preferences
	mu    sync.RWMutex
}

// Load reads persisted preferences over the defaults. Missing or malformed
// values keep their default.
func Load(ctx context.Context, store service.PreferenceStore) (*State, error) {
	stored, err := store.AllPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := model.DefaultPreferences()
	if v, ok := stored[KeyTheme]; ok {
		if theme, parseErr := ParseTheme(v); parseErr == nil {
			prefs.Theme = theme
		} else {
			slog.Warn("Ignoring stored theme", "value", v)
		}
	}
	if v, ok := stored[KeyAuthenticated]; ok {
		prefs.Authenticated = parseBool(v, prefs.Authenticated)
	}
	if v, ok := stored[KeySidebarOpen]; ok {
		prefs.SidebarOpen = parseBool(v, prefs.SidebarOpen)
	}
	if v, ok := stored[KeySelectedCard]; ok {
		prefs.SelectedCardID = v
	}

	return &State{store: store, prefs: prefs}, nil
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() model.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Login marks the session as authenticated.
func (s *State) Login(ctx context.Context) error {
	return s.update(ctx, KeyAuthenticated, func(p *model.Preferences) string {
		p.Authenticated = true
		return strconv.FormatBool(true)
	})
}

// Logout clears the authenticated flag.
func (s *State) Logout(ctx context.Context) error {
	return s.update(ctx, KeyAuthenticated, func(p *model.Preferences) string {
		p.Authenticated = false
		return strconv.FormatBool(false)
	})
}

// ToggleTheme switches between dark and light.
func (s *State) ToggleTheme(ctx context.Context) error {
	return s.update(ctx, KeyTheme, func(p *model.Preferences) string {
		if p.Theme == model.ThemeDark {
			p.Theme = model.ThemeLight
		} else {
			p.Theme = model.ThemeDark
		}
		return string(p.Theme)
	})
}

// SetTheme sets the theme.
func (s *State) SetTheme(ctx context.Context, theme model.Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return s.update(ctx, KeyTheme, func(p *model.Preferences) string {
		p.Theme = theme
		return string(theme)
	})
}

// ToggleSidebar flips the sidebar state.
func (s *State) ToggleSidebar(ctx context.Context) error {
	return s.update(ctx, KeySidebarOpen, func(p *model.Preferences) string {
		p.SidebarOpen = !p.SidebarOpen
		return strconv.FormatBool(p.SidebarOpen)
	})
}

// SelectCard records the selected wallet card.
func (s *State) SelectCard(ctx context.Context, id string) error {
	return s.update(ctx, KeySelectedCard, func(p *model.Preferences) string {
		p.SelectedCardID = id
		return id
	})
}

// update applies fn and writes the changed key through to the store. The
// in-memory state is only changed once the write succeeds.
func (s *State) update(ctx context.Context, key string, fn func(*model.Preferences) string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	value := fn(&next)
	if err := s.store.SetPreference(ctx, key, value); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	s.prefs = next
	return nil
}

// ParseTheme resolves a theme name.
func ParseTheme(s string) (model.Theme, error) {
	switch model.Theme(s) {
	case model.ThemeDark, model.ThemeLight:
		return model.Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}
