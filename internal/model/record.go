package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the mutually exclusive tag of a record.
type Kind string

// Transaction kinds.
const (
	KindIncome   Kind = "Income"
	KindExpense  Kind = "Expense"
	KindTransfer Kind = "Transfer"
)

// Invoice kinds.
const (
	KindDraft     Kind = "Draft"
	KindPending   Kind = "Pending"
	KindPaid      Kind = "Paid"
	KindOverdue   Kind = "Overdue"
	KindCancelled Kind = "Cancelled"
)

// AllKinds is the sentinel used by filters to mean "no kind constraint".
const AllKinds Kind = "All"

// TransactionKinds lists the kinds valid for the transactions collection.
var TransactionKinds = []Kind{KindIncome, KindExpense, KindTransfer}

// InvoiceKinds lists the kinds valid for the invoices collection.
var InvoiceKinds = []Kind{KindDraft, KindPending, KindPaid, KindOverdue, KindCancelled}

// ParseKind resolves a kind name case-insensitively. "All" and the empty
// string both resolve to AllKinds.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(AllKinds)) {
		return AllKinds, nil
	}
	for _, k := range TransactionKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	for _, k := range InvoiceKinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	// The original invoices screen called pending invoices "Unpaid".
	if strings.EqualFold(s, "unpaid") {
		return KindPending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsTransactionKind reports whether k belongs to the transactions collection.
func (k Kind) IsTransactionKind() bool {
	return k == KindIncome || k == KindExpense || k == KindTransfer
}

// IsInvoiceKind reports whether k belongs to the invoices collection.
func (k Kind) IsInvoiceKind() bool {
	switch k {
	case KindDraft, KindPending, KindPaid, KindOverdue, KindCancelled:
		return true
	}
	return false
}

// Direction returns the display sign for a kind: +1 for income, -1 for
// expense and 0 for everything else.
func (k Kind) Direction() int {
	switch k {
	case KindIncome:
		return 1
	case KindExpense:
		return -1
	default:
		return 0
	}
}

// Status is the secondary lifecycle tag of a record, independent of Kind.
type Status string

// Record statuses.
const (
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
	StatusFailed    Status = "Failed"
)

// Collection names the family a record belongs to.
type Collection string

// Collections.
const (
	CollectionTransactions Collection = "transactions"
	CollectionInvoices     Collection = "invoices"
)

// Record is a transaction or invoice entry.
type Record struct {
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	Kind          Kind            `json:"kind"`
	Status        Status          `json:"status,omitempty"`
	Recipient     string          `json:"recipient,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	CardID        string          `json:"cardId,omitempty"`
}

// Collection returns the collection implied by the record kind.
func (r *Record) Collection() Collection {
	if r.Kind.IsInvoiceKind() {
		return CollectionInvoices
	}
	return CollectionTransactions
}

// HasRecipient reports whether the record carries a transfer recipient.
func (r *Record) HasRecipient() bool {
	return r.Recipient != ""
}

// Record validation errors.
var (
	ErrUnknownKind    = errors.New("unknown kind")
	ErrInvalidRecord  = errors.New("invalid record")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Validate checks the record invariants enforced at the import boundary.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: %s: missing title", ErrInvalidRecord, r.ID)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: %s: missing date", ErrInvalidRecord, r.ID)
	}
	if r.Amount.IsNegative() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, r.ID, ErrNegativeAmount)
	}
	if !r.Kind.IsTransactionKind() && !r.Kind.IsInvoiceKind() {
		return fmt.Errorf("%w: %s: %w %q", ErrInvalidRecord, r.ID, ErrUnknownKind, r.Kind)
	}
	return nil
}
