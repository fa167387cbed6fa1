// Package cli renders maglo's terminal output and prompts.
package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Maglo palette.
var (
	PrimaryColor = lipgloss.Color("#C8EE44")
	SurfaceColor = lipgloss.Color("#363A3F")
	IncomeColor  = lipgloss.Color("#29A073")
	ExpenseColor = lipgloss.Color("#FF4D4F")
	WarningColor = lipgloss.Color("#FFB547")
	InfoColor    = lipgloss.Color("#8DD4F2")
)

var (
	// TitleStyle heads a command's output.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)

	// PromptStyle marks interactive questions.
	PromptStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	IncomeStyle  = lipgloss.NewStyle().Foreground(IncomeColor)
	ExpenseStyle = lipgloss.NewStyle().Foreground(ExpenseColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SurfaceColor).
			Padding(1, 2)

	successStyle = lipgloss.NewStyle().Foreground(IncomeColor)
	errorStyle   = lipgloss.NewStyle().Foreground(ExpenseColor)
	warningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	infoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💳"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
	LockIcon    = "🔒"
)

func badge(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess marks a completed action.
func FormatSuccess(message string) string { return badge(successStyle, SuccessIcon, message) }

// FormatError marks a failure the user can fix.
func FormatError(message string) string { return badge(errorStyle, ErrorIcon, message) }

// FormatWarning marks something that needs attention.
func FormatWarning(message string) string { return badge(warningStyle, WarningIcon, message) }

// FormatInfo marks a hint.
func FormatInfo(message string) string { return badge(infoStyle, InfoIcon, message) }

// FormatPrompt renders a question awaiting input.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatAmount renders SignedText coloured green for income and red for
// spending.
func FormatAmount(amount decimal.Decimal) string {
	text := SignedText(amount)
	switch amount.Sign() {
	case 1:
		return IncomeStyle.Render(text)
	case -1:
		return ExpenseStyle.Render(text)
	}
	return text
}

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
