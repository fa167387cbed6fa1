// Package components holds the bubbletea building blocks of the ledger UI.
package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/maglo/internal/ledger"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ListMode represents the current mode of the list.
type ListMode int

// List modes.
const (
	ModeNormal ListMode = iota
	ModeSearch
)

// FilterChangedMsg is sent whenever the active criteria change.
type FilterChangedMsg struct {
	Criteria ledger.Criteria
}

// RecordListModel is a filterable table of ledger records. It owns the filter
// state and re-queries the ledger on every change.
type RecordListModel struct {
	theme       themes.Theme
	title       string
	records     []model.Record
	filtered    []model.Record
	kinds       []model.Kind
	categories  []string
	criteria    ledger.Criteria
	sort        ledger.SortOptions
	searchInput textinput.Model
	table       table.Model
	mode        ListMode
	width       int
	height      int
}

// NewRecordList creates a list over records. kinds are the kind filters the
// user can cycle through after "All".
func NewRecordList(title string, records []model.Record, kinds []model.Kind, theme themes.Theme) RecordListModel {
	t := table.New(
		table.WithColumns(recordColumns(80)),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search title or recipient..."
	searchInput.CharLimit = 50

	m := RecordListModel{
		title:       title,
		kinds:       kinds,
		table:       t,
		searchInput: searchInput,
		width:       80,
		height:      24,
		sort:        ledger.DefaultSort(),
		criteria:    ledger.Criteria{Kind: model.AllKinds, Category: ledger.All},
	}
	m.SetTheme(theme)
	m.SetRecords(records)
	return m
}

// SetTheme restyles the table.
func (m *RecordListModel) SetTheme(theme themes.Theme) {
	m.theme = theme
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	m.table.SetStyles(s)
}

// SetRecords replaces the records and re-applies the filters. A category
// filter that no longer exists is reset to All.
func (m *RecordListModel) SetRecords(records []model.Record) {
	m.records = records
	m.categories = ledger.ListCategories(records)
	if !contains(m.categories, m.criteria.Category) {
		m.criteria.Category = ledger.All
	}
	m.applyFilters()
}

// Criteria returns the active filter criteria.
func (m RecordListModel) Criteria() ledger.Criteria { return m.criteria }

// Filtered returns the records currently shown.
func (m RecordListModel) Filtered() []model.Record { return m.filtered }

// Searching reports whether the search input has focus.
func (m RecordListModel) Searching() bool { return m.mode == ModeSearch }

// Update handles messages.
func (m RecordListModel) Update(msg tea.Msg) (RecordListModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if m.mode == ModeSearch {
		return m.handleSearchMode(keyMsg)
	}

	before := m.criteria
	switch keyMsg.String() {
	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue(m.criteria.Search)
		m.searchInput.Focus()
		return m, textinput.Blink
	case "f":
		m.criteria.Kind = nextKind(m.kinds, m.criteria.Kind)
	case "c":
		m.criteria.Category = nextString(m.categories, m.criteria.Category)
	case "s":
		m.sort.Field = nextSortField(m.sort.Field)
	case "r":
		m.sort.Descending = !m.sort.Descending
	case "x":
		m.criteria.Search = ""
		m.criteria.Kind = model.AllKinds
		m.criteria.Category = ledger.All
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	m.applyFilters()
	if before != m.criteria {
		return m, m.filterChanged()
	}
	return m, nil
}

func (m RecordListModel) handleSearchMode(msg tea.KeyMsg) (RecordListModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.criteria.Search = ""
		m.applyFilters()
		return m, m.filterChanged()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.criteria.Search {
		m.criteria.Search = m.searchInput.Value()
		m.applyFilters()
		return m, tea.Batch(cmd, m.filterChanged())
	}
	return m, cmd
}

func (m RecordListModel) filterChanged() tea.Cmd {
	criteria := m.criteria
	return func() tea.Msg { return FilterChangedMsg{Criteria: criteria} }
}

// View renders the list.
func (m RecordListModel) View() string {
	sections := []string{m.renderHeader()}
	if m.mode == ModeSearch {
		sections = append(sections, m.searchInput.View())
	}
	if len(m.filtered) == 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No records match the current filters."))
	} else {
		sections = append(sections, m.table.View())
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RecordListModel) renderHeader() string {
	title := m.theme.Title.Render(m.title)

	parts := []string{fmt.Sprintf("%d of %d", len(m.filtered), len(m.records))}
	parts = append(parts, "Kind: "+string(orAll(m.criteria.Kind)))
	parts = append(parts, "Category: "+m.criteria.Category)
	if m.criteria.Search != "" {
		parts = append(parts, fmt.Sprintf("Search: %q", m.criteria.Search))
	}
	order := "asc"
	if m.sort.Descending {
		order = "desc"
	}
	parts = append(parts, fmt.Sprintf("Sort: %s %s", m.sort.Field, order))

	return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Subtitle.Render(strings.Join(parts, " | ")))
}

func (m RecordListModel) renderFooter() string {
	var hints []string
	switch m.mode {
	case ModeNormal:
		hints = []string{"[↑↓] Navigate", "[/] Search", "[f] Kind", "[c] Category", "[s] Sort", "[r] Reverse", "[x] Clear"}
	case ModeSearch:
		hints = []string{"[Enter] Done", "[Esc] Clear search"}
	}
	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(hints, "  "))
}

func (m *RecordListModel) applyFilters() {
	m.filtered = ledger.Sort(ledger.Filter(m.records, m.criteria), m.sort)
	m.table.SetRows(m.buildRows())
	if m.table.Cursor() >= len(m.filtered) {
		m.table.SetCursor(max(0, len(m.filtered)-1))
	}
}

func (m RecordListModel) buildRows() []table.Row {
	rows := make([]table.Row, 0, len(m.filtered))
	for i := range m.filtered {
		r := &m.filtered[i]
		rows = append(rows, table.Row{
			r.Date.Format("2006-01-02"),
			truncate(r.Title, 28),
			themes.GetCategoryIcon(r.Category) + " " + r.Category,
			string(r.Kind),
			signed(ledger.SignedAmount(*r).StringFixed(2)),
			string(r.Status),
		})
	}
	return rows
}

// Resize updates the component size.
func (m *RecordListModel) Resize(width, height int) {
	m.width = width
	m.height = height
	// Title, subtitle, column header and footer.
	m.table.SetHeight(max(1, height-6))
	m.table.SetColumns(recordColumns(width))
}

func recordColumns(width int) []table.Column {
	available := max(60, width-4)
	return []table.Column{
		{Title: "Date", Width: max(10, available*12/100)},
		{Title: "Title", Width: max(15, available*30/100)},
		{Title: "Category", Width: max(12, available*20/100)},
		{Title: "Kind", Width: max(8, available*12/100)},
		{Title: "Amount", Width: max(10, available*14/100)},
		{Title: "Status", Width: max(8, available*12/100)},
	}
}

func nextKind(kinds []model.Kind, current model.Kind) model.Kind {
	cycle := append([]model.Kind{model.AllKinds}, kinds...)
	current = orAll(current)
	for i, k := range cycle {
		if k == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return model.AllKinds
}

func nextString(values []string, current string) string {
	if len(values) == 0 {
		return ledger.All
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

var sortCycle = []ledger.SortField{ledger.SortByDate, ledger.SortByAmount, ledger.SortByTitle}

func nextSortField(current ledger.SortField) ledger.SortField {
	for i, f := range sortCycle {
		if f == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return ledger.SortByDate
}

func orAll(k model.Kind) model.Kind {
	if k == "" {
		return model.AllKinds
	}
	return k
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	if s == "0.00" {
		return s
	}
	return "+" + s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
