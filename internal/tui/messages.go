package tui

import "github.com/Veraticus/maglo/internal/model"

// Data loading messages.
type dataLoadedMsg struct {
	err          error
	transactions []model.Record
	invoices     []model.Record
	cards        []model.Card
}

type cardUpdatedMsg struct {
	card model.Card
}

// Error handling.
type errorMsg struct {
	err     error
	context string
}

// Tab is one of the top-level views.
type Tab int

// Tabs.
const (
	TabTransactions Tab = iota
	TabInvoices
	TabWallet
)

var tabNames = []string{"Transactions", "Invoices", "Wallet"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "unknown"
}
