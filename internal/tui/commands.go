package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/wallet"
	tea "github.com/charmbracelet/bubbletea"
)

// loadData reads both collections and the wallet from storage.
func (m Model) loadData() tea.Cmd {
	store := m.storage
	ctx := m.ctx
	return func() tea.Msg {
		transactions, err := store.GetRecords(ctx, model.CollectionTransactions)
		if err != nil {
			return dataLoadedMsg{err: fmt.Errorf("failed to load transactions: %w", err)}
		}
		invoices, err := store.GetRecords(ctx, model.CollectionInvoices)
		if err != nil {
			return dataLoadedMsg{err: fmt.Errorf("failed to load invoices: %w", err)}
		}
		cards, err := store.GetCards(ctx)
		if err != nil {
			return dataLoadedMsg{err: fmt.Errorf("failed to load cards: %w", err)}
		}
		return dataLoadedMsg{transactions: transactions, invoices: invoices, cards: cards}
	}
}

// toggleFreeze flips the frozen flag of a card.
func (m Model) toggleFreeze(id string) tea.Cmd {
	svc := wallet.NewService(m.storage, m.storage)
	ctx := m.ctx
	return func() tea.Msg {
		card, err := svc.ToggleFreeze(ctx, id)
		if err != nil {
			return errorMsg{err: err, context: "freeze card"}
		}
		return cardUpdatedMsg{card: *card}
	}
}

// persist runs a session mutation and reports failures as errors.
func (m Model) persist(action string, fn func(ctx context.Context) error) tea.Cmd {
	if m.session == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return errorMsg{err: err, context: action}
		}
		return nil
	}
}
