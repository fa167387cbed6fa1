package components

import (
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/tui/themes"
	"github.com/Veraticus/maglo/internal/wallet"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Card geometry in terminal cells.
const (
	CardWidth  = 26
	CardHeight = 7
	// PixelsPerCell converts cell columns into the carousel's pointer units.
	PixelsPerCell = 8.0
)

// CardSelectedMsg is sent when the carousel selection changes. ID is empty
// when the selection was cleared.
type CardSelectedMsg struct {
	ID string
}

// CardLongPressMsg is sent when a card is long-pressed.
type CardLongPressMsg struct {
	ID string
}

// LongPressTickMsg wakes the carousel so a held press can become a long
// press without further input.
type LongPressTickMsg struct {
	At time.Time
}

// WalletModel renders the wallet cards and feeds pointer input to the
// carousel state machine.
type WalletModel struct {
	now      func() time.Time
	carousel *wallet.Carousel
	theme    themes.Theme
	cards    []model.Card
	originX  int
	originY  int
	width    int
	height   int
}

// NewWalletModel creates a wallet view with the card selectedID selected.
func NewWalletModel(cards []model.Card, selectedID string, theme themes.Theme) WalletModel {
	m := WalletModel{
		now:      time.Now,
		carousel: wallet.NewCarousel(len(cards)),
		theme:    theme,
	}
	m.SetCards(cards, selectedID)
	return m
}

// SetCards replaces the cards, keeping selectedID selected when present.
func (m *WalletModel) SetCards(cards []model.Card, selectedID string) {
	m.cards = cards
	m.carousel.SetCount(len(cards))
	m.carousel.Clear()
	for i := range cards {
		if cards[i].ID == selectedID {
			m.carousel.Select(i)
			break
		}
	}
}

// SetTheme restyles the cards.
func (m *WalletModel) SetTheme(theme themes.Theme) { m.theme = theme }

// SetOrigin records where the card row starts on screen so mouse
// coordinates can be mapped to cards.
func (m *WalletModel) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// Resize updates the component size.
func (m *WalletModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedCard returns the selected card, if any.
func (m WalletModel) SelectedCard() (model.Card, bool) {
	i, ok := m.carousel.Selected()
	if !ok {
		return model.Card{}, false
	}
	return m.cards[i], true
}

// GestureState exposes the carousel state for the status bar.
func (m WalletModel) GestureState() wallet.GestureState { return m.carousel.State() }

// Update handles messages.
func (m WalletModel) Update(msg tea.Msg) (WalletModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case LongPressTickMsg:
		m.carousel.Tick(msg.At)
	}
	return m, nil
}

func (m WalletModel) handleKey(msg tea.KeyMsg) (WalletModel, tea.Cmd) {
	before, _ := m.carousel.Selected()
	switch msg.String() {
	case "left", "h":
		m.carousel.Prev()
	case "right", "l":
		m.carousel.Next()
	case "enter", " ":
		if i, ok := m.carousel.Selected(); ok {
			m.carousel.Toggle(i)
		} else {
			m.carousel.Next()
		}
	case "esc":
		m.carousel.Clear()
	default:
		return m, nil
	}
	return m, m.selectionChanged(before)
}

func (m WalletModel) handleMouse(msg tea.MouseMsg) (WalletModel, tea.Cmd) {
	x := float64(msg.X) * PixelsPerCell
	at := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !m.inside(msg.X, msg.Y) {
			return m, nil
		}
		m.carousel.Down(x, at)
		return m, longPressTick(wallet.LongPressDelay)

	case tea.MouseActionMotion:
		if m.carousel.State() == wallet.Idle {
			return m, nil
		}
		if msg.Y < m.originY || msg.Y >= m.originY+CardHeight+6 {
			m.carousel.Leave()
			return m, nil
		}
		m.carousel.Move()

	case tea.MouseActionRelease:
		before, _ := m.carousel.Selected()
		target := m.cardAt(msg.X, msg.Y)
		switch m.carousel.Up(x, target, at) {
		case wallet.OutcomeLongPress:
			if target >= 0 {
				id := m.cards[target].ID
				return m, func() tea.Msg { return CardLongPressMsg{ID: id} }
			}
		case wallet.OutcomeClick, wallet.OutcomeSwipeNext, wallet.OutcomeSwipePrev:
			return m, m.selectionChanged(before)
		}
	}
	return m, nil
}

func (m WalletModel) selectionChanged(before int) tea.Cmd {
	after, ok := m.carousel.Selected()
	if after == before {
		return nil
	}
	id := ""
	if ok {
		id = m.cards[after].ID
	}
	return func() tea.Msg { return CardSelectedMsg{ID: id} }
}

func longPressTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return LongPressTickMsg{At: t} })
}

func (m WalletModel) inside(x, y int) bool {
	return x >= m.originX && x < m.originX+len(m.cards)*CardWidth &&
		y >= m.originY && y < m.originY+CardHeight+6
}

// cardAt returns the index of the card under the pointer, or -1.
func (m WalletModel) cardAt(x, y int) int {
	if !m.inside(x, y) {
		return -1
	}
	return (x - m.originX) / CardWidth
}

// View renders the fanned card row and the selected card's details.
func (m WalletModel) View() string {
	if len(m.cards) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No cards yet. Add one with: maglo wallet add")
	}

	selected, hasSelection := m.carousel.Selected()
	placements := wallet.Layout(len(m.cards), selected)

	rendered := make([]string, len(m.cards))
	for i := range m.cards {
		// Offsets are in layout units; ten units make one row.
		top := int(math.Round((placements[i].OffsetY + 40) / 10))
		rendered[i] = lipgloss.NewStyle().PaddingTop(top).Render(m.renderCard(i, hasSelection && i == selected))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	hint := "[←→] Browse  [Enter] Select  [Esc] Clear  [z] Freeze  Drag to swipe, hold to freeze"
	sections := []string{row, "", lipgloss.NewStyle().Foreground(m.theme.Muted).Render(hint)}
	if card, ok := m.SelectedCard(); ok {
		sections = append(sections, "", m.renderDetails(card))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m WalletModel) renderCard(i int, lifted bool) string {
	c := m.cards[i]
	style := m.theme.Card
	switch {
	case lifted:
		style = m.theme.LiftedCard
	case c.Frozen:
		style = m.theme.FrozenCard
	}

	name := c.Alias
	if name == "" {
		name = string(c.Network)
	}
	status := ""
	if c.Frozen {
		status = " (frozen)"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		truncate(name, CardWidth-4)+status,
		"$"+c.Balance.StringFixed(2),
		c.Number,
		fmt.Sprintf("%-12s %s", truncate(c.Holder, 12), c.Expiry),
	)
	return style.Width(CardWidth - 2).Height(CardHeight - 2).Render(body)
}

func (m WalletModel) renderDetails(c model.Card) string {
	state := m.theme.StatusSuccess.Render("Active")
	if c.Frozen {
		state = m.theme.StatusWarning.Render("Frozen")
	}
	return m.theme.BorderedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(c.Label()),
		"Holder:  "+c.Holder,
		"Expires: "+c.Expiry,
		"Balance: $"+c.Balance.StringFixed(2),
		"Status:  "+state,
	))
}
