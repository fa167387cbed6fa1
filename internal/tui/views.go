package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}

	content := m.renderActive()
	if m.showHelp {
		content = m.renderHelp()
	}
	return m.wrapWithBorder(lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), content))
}

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("Loading Maglo..."),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Reading your ledger"),
	)
	if m.lastError != nil {
		content = lipgloss.JoinVertical(
			lipgloss.Center,
			content,
			m.theme.StatusError.Render(m.lastError.Error()),
		)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderTabs renders the tab bar.
func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		style := m.theme.Tab
		if Tab(i) == m.tab {
			style = m.theme.ActiveTab
		}
		tabs[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderActive renders the body of the active tab.
func (m Model) renderActive() string {
	var main string
	switch m.tab {
	case TabTransactions:
		main = m.transactions.View()
	case TabInvoices:
		main = m.invoices.View()
	case TabWallet:
		return m.wallet.View()
	}

	if m.sidebarOpen && m.width >= 100 {
		return lipgloss.JoinHorizontal(
			lipgloss.Top,
			main,
			m.theme.Normal.Render(" │ "),
			m.stats.View(),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, m.stats.View())
}

// renderHelp renders the full key reference.
func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	h.Width = m.width - 4
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Keyboard shortcuts"),
		h.View(m.keymap),
	)
}

// wrapWithBorder adds a border around content.
func (m Model) wrapWithBorder(content string) string {
	fullContent := lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderStatusBar(),
	)

	return m.theme.BorderedBox.
		Width(m.width).
		Height(m.height).
		Render(fullContent)
}

// renderStatusBar renders the bottom status bar.
func (m Model) renderStatusBar() string {
	left := m.tab.String()
	if m.lastError != nil {
		left = m.theme.StatusError.Render("! " + m.lastError.Error())
	}

	var center string
	switch m.tab {
	case TabWallet:
		if card, ok := m.wallet.SelectedCard(); ok {
			center = card.Label()
		}
	default:
		summary := m.stats.Summary()
		center = fmt.Sprintf("%d records · %s", summary.Count, summary.Total.StringFixed(2))
	}

	right := "? Help"

	totalWidth := m.width - 4
	spacing := max(2, totalWidth-lipgloss.Width(left)-lipgloss.Width(center)-lipgloss.Width(right))
	leftPad := spacing / 2
	rightPad := spacing - leftPad

	status := fmt.Sprintf("%s%s%s%s%s",
		m.theme.Bold.Render(left),
		strings.Repeat(" ", leftPad),
		m.theme.Normal.Render(center),
		strings.Repeat(" ", rightPad),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render(right),
	)

	return m.theme.Normal.
		Background(m.theme.Border).
		Width(max(0, m.width-2)).
		MaxWidth(max(0, m.width-2)).
		Render(status)
}
