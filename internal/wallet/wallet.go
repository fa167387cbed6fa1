package wallet

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet errors.
var (
	ErrMissingField  = errors.New("required field missing")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidExpiry = errors.New("invalid expiry date")
	ErrCardFrozen    = errors.New("card is frozen")
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// NewCard is the input for adding a card.
type NewCard struct {
	Balance decimal.Decimal
	Number  string
	Holder  string
	Expiry  string
	Network model.CardNetwork
	Alias   string
	Variant string
}

// NewTransaction is the input for recording a card transaction.
type NewTransaction struct {
	Date     time.Time
	Amount   decimal.Decimal
	Title    string
	Category string
	CardID   string
	Notes    string
	Kind     model.Kind
}

// Stats summarizes the wallet.
type Stats struct {
	Balance decimal.Decimal
	Total   int
	Active  int
	Frozen  int
}

// Service manages wallet cards and the transactions charged to them.
type Service struct {
	cards   service.CardStore
	records service.RecordStore
	now     func() time.Time
}

// NewService creates a wallet service.
func NewService(cards service.CardStore, records service.RecordStore) *Service {
	return &Service{
		cards:   cards,
		records: records,
		now:     time.Now,
	}
}

// Cards returns the wallet cards in display order.
func (s *Service) Cards(ctx context.Context) ([]model.Card, error) {
	return s.cards.GetCards(ctx)
}

// AddCard stores a new card. Only the last four digits of the number are
// kept.
func (s *Service) AddCard(ctx context.Context, in NewCard) (*model.Card, error) {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, in.Number)

	switch {
	case digits == "":
		return nil, fmt.Errorf("%w: card number", ErrMissingField)
	case strings.TrimSpace(in.Holder) == "":
		return nil, fmt.Errorf("%w: holder name", ErrMissingField)
	case strings.TrimSpace(in.Alias) == "":
		return nil, fmt.Errorf("%w: alias", ErrMissingField)
	case in.Balance.IsNegative():
		return nil, fmt.Errorf("%w: balance must not be negative", ErrInvalidAmount)
	}

	expiry, err := FormatExpiry(in.Expiry)
	if err != nil {
		return nil, err
	}

	network := in.Network
	if network == "" {
		network = model.NetworkVisa
	}

	last4 := digits
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}

	card := &model.Card{
		ID:      "card_" + uuid.NewString(),
		Holder:  strings.TrimSpace(in.Holder),
		Number:  "**** **** **** " + last4,
		Expiry:  expiry,
		Network: network,
		Variant: in.Variant,
		Alias:   strings.TrimSpace(in.Alias),
		Balance: in.Balance,
	}
	if err := s.cards.SaveCard(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	return card, nil
}

// ToggleFreeze flips the frozen flag of a card.
func (s *Service) ToggleFreeze(ctx context.Context, id string) (*model.Card, error) {
	card, err := s.cards.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	card.Frozen = !card.Frozen
	if err := s.cards.SaveCard(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	return card, nil
}

// Stats counts active and frozen cards and sums their balances.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	cards, err := s.cards.GetCards(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(cards)}
	for _, c := range cards {
		if c.Frozen {
			stats.Frozen++
		} else {
			stats.Active++
		}
		stats.Balance = stats.Balance.Add(c.Balance)
	}
	return stats, nil
}

// AddTransaction records a transaction paid with one of the wallet cards.
func (s *Service) AddTransaction(ctx context.Context, in NewTransaction) (*model.Record, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	case strings.TrimSpace(in.Category) == "":
		return nil, fmt.Errorf("%w: category", ErrMissingField)
	case strings.TrimSpace(in.CardID) == "":
		return nil, fmt.Errorf("%w: card", ErrMissingField)
	case !in.Amount.IsPositive():
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	kind := in.Kind
	if kind == "" {
		kind = model.KindExpense
	}
	if !kind.IsTransactionKind() {
		return nil, fmt.Errorf("%w: %q is not a transaction kind", model.ErrUnknownKind, kind)
	}

	card, err := s.cards.GetCard(ctx, in.CardID)
	if err != nil {
		return nil, err
	}
	if card.Frozen {
		return nil, fmt.Errorf("%w: %s", ErrCardFrozen, card.Label())
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	record := model.Record{
		ID:            "txn_" + uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Category:      strings.TrimSpace(in.Category),
		Amount:        in.Amount,
		Kind:          kind,
		Date:          date,
		Status:        model.StatusCompleted,
		Notes:         in.Notes,
		PaymentMethod: card.Label(),
		CardID:        card.ID,
	}
	if err := s.records.SaveRecords(ctx, []model.Record{record}); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	return &record, nil
}

// FormatExpiry normalizes "MMYY" or "MM/YY" input to "MM/YY".
func FormatExpiry(s string) (string, error) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return "", fmt.Errorf("%w: expiry date", ErrMissingField)
	}
	if len(d) != 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidExpiry, s)
	}

	out := d[:2] + "/" + d[2:]
	if !expiryPattern.MatchString(out) {
		return "", fmt.Errorf("%w: %q", ErrInvalidExpiry, s)
	}
	return out, nil
}
