// Package themes defines the colour schemes of the terminal UI.
package themes

import (
	"github.com/Veraticus/maglo/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Name          model.Theme
	Selected      lipgloss.Style
	StatusPending lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	Card          lipgloss.Style
	LiftedCard    lipgloss.Style
	FrozenCard    lipgloss.Style
	Highlighted   lipgloss.Style
	BorderedBox   lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Income        lipgloss.Color
	Expense       lipgloss.Color
}

type palette struct {
	primary, onPrimary, foreground, background, subtle, border, muted lipgloss.Color
	income, expense, warning                                          lipgloss.Color
}

func build(name model.Theme, p palette) Theme {
	return Theme{
		Name:       name,
		Primary:    p.primary,
		Muted:      p.muted,
		Border:     p.border,
		Foreground: p.foreground,
		Background: p.background,
		Income:     p.income,
		Expense:    p.expense,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onPrimary).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.border).
			Foreground(p.foreground),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().
			Foreground(p.onPrimary).
			Background(p.primary).
			Bold(true).
			Padding(0, 2),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Foreground(p.foreground).
			Padding(0, 1),
		LiftedCard: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.primary).
			Foreground(p.foreground).
			Bold(true).
			Padding(0, 1),
		FrozenCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Foreground(p.muted).
			Faint(true).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.income).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.expense).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
	}
}

// Dark is the default theme.
var Dark = build(model.ThemeDark, palette{
	primary:    lipgloss.Color("#C8EE44"),
	onPrimary:  lipgloss.Color("#1B212D"),
	foreground: lipgloss.Color("#FAFAFA"),
	background: lipgloss.Color("#1C1A2E"),
	subtle:     lipgloss.Color("#A3A3A3"),
	border:     lipgloss.Color("#3A3F51"),
	muted:      lipgloss.Color("#737373"),
	income:     lipgloss.Color("#29A073"),
	expense:    lipgloss.Color("#FF4D4F"),
	warning:    lipgloss.Color("#F59E0B"),
})

// Light is the light theme.
var Light = build(model.ThemeLight, palette{
	primary:    lipgloss.Color("#29A073"),
	onPrimary:  lipgloss.Color("#FFFFFF"),
	foreground: lipgloss.Color("#1B212D"),
	background: lipgloss.Color("#FAFAFA"),
	subtle:     lipgloss.Color("#78778B"),
	border:     lipgloss.Color("#E5E7EB"),
	muted:      lipgloss.Color("#929EAE"),
	income:     lipgloss.Color("#16794F"),
	expense:    lipgloss.Color("#D32F2F"),
	warning:    lipgloss.Color("#B45309"),
})

// GetTheme returns the theme for a preference value.
func GetTheme(name model.Theme) Theme {
	if name == model.ThemeLight {
		return Light
	}
	return Dark
}

// CategoryIcons maps categories to emoji icons.
var CategoryIcons = map[string]string{
	"Groceries":     "🥬",
	"Dining":        "🍕",
	"Transport":     "🚗",
	"Entertainment": "🎬",
	"Shopping":      "🛍️",
	"Subscription":  "📱",
	"Utilities":     "💡",
	"Income":        "💰",
	"Transfer":      "🔁",
	"Design":        "🎨",
	"Software":      "💻",
	"Marketing":     "📣",
	"Consulting":    "🧠",
	"Interest":      "📈",
	"Bank Fees":     "🏦",
	"Cash & ATM":    "🏧",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category string) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📦"
}
