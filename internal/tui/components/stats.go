package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// StatsPanelModel displays the totals of the records currently shown.
type StatsPanelModel struct {
	theme       themes.Theme
	summary     ledger.Summary
	totals      ledger.Totals
	shares      []ledger.CategoryShare
	progressBar progress.Model
	width       int
	height      int
	compact     bool
}

// NewStatsPanelModel creates a new stats panel.
func NewStatsPanelModel(theme themes.Theme) StatsPanelModel {
	prog := progress.New(progress.WithSolidFill(string(theme.Primary)))
	prog.ShowPercentage = false
	prog.Width = 20

	return StatsPanelModel{
		progressBar: prog,
		theme:       theme,
	}
}

// SetRecords recomputes the panel from the visible records.
func (m *StatsPanelModel) SetRecords(records []model.Record) {
	m.summary = ledger.Summarize(records)
	m.totals = ledger.ComputeTotals(records)
	m.shares = ledger.Breakdown(records, model.KindExpense)
}

// SetTheme restyles the panel.
func (m *StatsPanelModel) SetTheme(theme themes.Theme) {
	m.theme = theme
	m.progressBar = progress.New(progress.WithSolidFill(string(theme.Primary)))
	m.progressBar.ShowPercentage = false
	m.progressBar.Width = max(10, min(m.width-20, 30))
}

// Summary returns the count and total of the visible records.
func (m StatsPanelModel) Summary() ledger.Summary { return m.summary }

// View renders the stats panel.
func (m StatsPanelModel) View() string {
	if m.compact {
		return m.renderCompact()
	}
	return m.renderFull()
}

func (m StatsPanelModel) renderCompact() string {
	return m.theme.Subtitle.Render(fmt.Sprintf(
		"%d records | Total $%s | Net %s",
		m.summary.Count,
		m.summary.Total.StringFixed(2),
		m.money(m.totals.Net),
	))
}

func (m StatsPanelModel) renderFull() string {
	lines := []string{
		fmt.Sprintf("Records:   %d", m.summary.Count),
		fmt.Sprintf("Total:     $%s", m.summary.Total.StringFixed(2)),
		fmt.Sprintf("Income:    %s", m.money(m.totals.Income)),
		fmt.Sprintf("Expenses:  %s", m.money(m.totals.Expense.Neg())),
		fmt.Sprintf("Net:       %s", m.money(m.totals.Net)),
		fmt.Sprintf("Saved:     %s%%", m.totals.SavingsRate.StringFixed(1)),
	}

	sections := []string{
		m.theme.Title.Render("Summary"),
		m.theme.Normal.Render(strings.Join(lines, "\n")),
	}
	if len(m.shares) > 0 {
		sections = append(sections, "", m.theme.Subtitle.Render("Spending by category"), m.renderShares())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m StatsPanelModel) renderShares() string {
	lines := make([]string, 0, 5)
	for _, share := range m.shares[:min(5, len(m.shares))] {
		pct := share.Percentage.InexactFloat64() / 100
		lines = append(lines, fmt.Sprintf("%s %-13s %s %5s%%",
			themes.GetCategoryIcon(share.Category),
			truncate(share.Category, 13),
			m.progressBar.ViewAs(pct),
			share.Percentage.StringFixed(1),
		))
	}
	return strings.Join(lines, "\n")
}

func (m StatsPanelModel) money(amount decimal.Decimal) string {
	text := amount.StringFixed(2)
	switch {
	case strings.HasPrefix(text, "-"):
		return lipgloss.NewStyle().Foreground(m.theme.Expense).Render("-$" + text[1:])
	case text == "0.00":
		return "$" + text
	}
	return lipgloss.NewStyle().Foreground(m.theme.Income).Render("+$" + text)
}

// SetCompact sets compact mode.
func (m *StatsPanelModel) SetCompact(compact bool) {
	m.compact = compact
}

// Resize updates the component size.
func (m *StatsPanelModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.progressBar.Width = max(10, min(width-20, 30))
}
