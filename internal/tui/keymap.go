package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keyboard shortcuts. List and wallet keys are
// handled by their components.
type KeyMap struct {
	NextTab       key.Binding
	PrevTab       key.Binding
	ToggleTheme   key.Binding
	ToggleSidebar key.Binding
	Freeze        key.Binding
	Refresh       key.Binding
	Help          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding

	// Shown in help only.
	Search   key.Binding
	Kind     key.Binding
	Category key.Binding
	Sort     key.Binding
	Clear    key.Binding
	Browse   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next view"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous view"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle sidebar"),
		),
		Freeze: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "freeze/unfreeze card"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Kind: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle kind"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle category"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s", "r"),
			key.WithHelp("s/r", "sort field/order"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Browse: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "browse cards"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.ToggleTheme, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.ToggleTheme, k.ToggleSidebar},
		{k.Search, k.Kind, k.Category, k.Sort, k.Clear},
		{k.Browse, k.Freeze},
		{k.Refresh, k.Help, k.Quit, k.ForceQuit},
	}
}
