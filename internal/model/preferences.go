package model

// Theme is the colour scheme chosen in settings.
type Theme string

// Themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Preferences is the UI state kept across sessions.
type Preferences struct {
	Theme          Theme
	SelectedCardID string
	SidebarOpen    bool
	Authenticated  bool
}

// DefaultPreferences returns the state of a fresh installation.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          ThemeDark,
		SidebarOpen:    true,
		SelectedCardID: "c1",
	}
}
