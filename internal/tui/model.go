package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/service"
	"github.com/Veraticus/maglo/internal/session"
	"github.com/Veraticus/maglo/internal/tui/components"
	"github.com/Veraticus/maglo/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the main TUI state.
type Model struct {
	ctx          context.Context
	storage      service.Storage
	session      *session.State
	lastError    error
	theme        themes.Theme
	keymap       KeyMap
	help         help.Model
	transactions components.RecordListModel
	invoices     components.RecordListModel
	wallet       components.WalletModel
	stats        components.StatsPanelModel
	selectedCard string
	tab          Tab
	width        int
	height       int
	sidebarOpen  bool
	showHelp     bool
	ready        bool
	quitting     bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	theme := cfg.Theme
	prefs := model.DefaultPreferences()
	if cfg.Session != nil {
		prefs = cfg.Session.Snapshot()
		theme = themes.GetTheme(prefs.Theme)
	}

	m := Model{
		ctx:          ctx,
		storage:      cfg.Storage,
		session:      cfg.Session,
		theme:        theme,
		keymap:       DefaultKeyMap(),
		help:         help.New(),
		transactions: components.NewRecordList("Transactions", nil, model.TransactionKinds, theme),
		invoices:     components.NewRecordList("Invoices", nil, model.InvoiceKinds, theme),
		wallet:       components.NewWalletModel(nil, prefs.SelectedCardID, theme),
		stats:        components.NewStatsPanelModel(theme),
		selectedCard: prefs.SelectedCardID,
		sidebarOpen:  prefs.SidebarOpen,
		width:        cfg.Width,
		height:       cfg.Height,
	}
	m.handleResize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.storage == nil {
		return nil
	}
	return m.loadData()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.activeListSearching() {
			return m.updateActive(msg)
		}
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
		return m.updateActive(msg)

	case tea.MouseMsg:
		if m.tab != TabWallet {
			return m, nil
		}
		var cmd tea.Cmd
		m.wallet, cmd = m.wallet.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case dataLoadedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			slog.Error("Failed to load ledger", "error", msg.err)
			return m, nil
		}
		m.transactions.SetRecords(msg.transactions)
		m.invoices.SetRecords(msg.invoices)
		m.wallet.SetCards(msg.cards, m.selectedCard)
		m.refreshStats()
		m.ready = true
		return m, nil

	case cardUpdatedMsg:
		return m, m.loadData()

	case components.FilterChangedMsg:
		m.refreshStats()
		return m, nil

	case components.CardSelectedMsg:
		m.selectedCard = msg.ID
		id := msg.ID
		return m, m.persist("select card", func(ctx context.Context) error {
			return m.session.SelectCard(ctx, id)
		})

	case components.CardLongPressMsg:
		return m, m.toggleFreeze(msg.ID)

	case components.LongPressTickMsg:
		var cmd tea.Cmd
		m.wallet, cmd = m.wallet.Update(msg)
		return m, cmd

	case errorMsg:
		m.lastError = msg.err
		slog.Warn("TUI action failed", "action", msg.context, "error", msg.err)
		return m, nil
	}

	return m.updateActive(msg)
}

// updateActive delegates to the component of the current tab.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case TabTransactions:
		m.transactions, cmd = m.transactions.Update(msg)
	case TabInvoices:
		m.invoices, cmd = m.invoices.Update(msg)
	case TabWallet:
		m.wallet, cmd = m.wallet.Update(msg)
	}
	return m, cmd
}

// handleGlobalKeys handles keys that work on every tab.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.refreshStats()
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.refreshStats()
		return nil, true

	case key.Matches(msg, m.keymap.ToggleTheme):
		next := model.ThemeLight
		if m.theme.Name == model.ThemeLight {
			next = model.ThemeDark
		}
		m.applyTheme(themes.GetTheme(next))
		return m.persist("set theme", func(ctx context.Context) error {
			return m.session.SetTheme(ctx, next)
		}), true

	case key.Matches(msg, m.keymap.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		m.handleResize()
		return m.persist("toggle sidebar", func(ctx context.Context) error {
			return m.session.ToggleSidebar(ctx)
		}), true

	case key.Matches(msg, m.keymap.Freeze) && m.tab == TabWallet:
		card, ok := m.wallet.SelectedCard()
		if !ok {
			m.lastError = errors.New("select a card to freeze it")
			return nil, true
		}
		return m.toggleFreeze(card.ID), true

	case key.Matches(msg, m.keymap.Refresh):
		if m.storage == nil {
			return nil, true
		}
		return m.loadData(), true
	}
	return nil, false
}

func (m Model) activeListSearching() bool {
	switch m.tab {
	case TabTransactions:
		return m.transactions.Searching()
	case TabInvoices:
		return m.invoices.Searching()
	}
	return false
}

func (m *Model) applyTheme(theme themes.Theme) {
	m.theme = theme
	m.transactions.SetTheme(theme)
	m.invoices.SetTheme(theme)
	m.wallet.SetTheme(theme)
	m.stats.SetTheme(theme)
	m.refreshStats()
}

// refreshStats recomputes the sidebar from the active list.
func (m *Model) refreshStats() {
	switch m.tab {
	case TabInvoices:
		m.stats.SetRecords(m.invoices.Filtered())
	default:
		m.stats.SetRecords(m.transactions.Filtered())
	}
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	// Tab bar (1), status bar (1) and borders (2).
	usableHeight := max(1, m.height-4)
	listWidth := m.width - 2
	if m.sidebarOpen && m.width >= 100 {
		sidebar := m.width / 3
		listWidth = m.width - sidebar - 5
		m.stats.SetCompact(false)
		m.stats.Resize(sidebar, usableHeight)
	} else {
		m.stats.SetCompact(true)
		m.stats.Resize(listWidth, 1)
		usableHeight--
	}
	m.transactions.Resize(listWidth, usableHeight)
	m.invoices.Resize(listWidth, usableHeight)
	m.wallet.Resize(m.width-2, usableHeight)
	// The card row starts inside the border and padding, below the tab bar.
	m.wallet.SetOrigin(2, 2)
}
