package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CardNetwork is the card scheme printed on a wallet card.
type CardNetwork string

// Card networks.
const (
	NetworkVisa       CardNetwork = "Visa"
	NetworkMasterCard CardNetwork = "MasterCard"
)

// Card is a payment card held in the wallet.
type Card struct {
	Balance decimal.Decimal `json:"balance"`
	ID      string          `json:"id"`
	Holder  string          `json:"holderName"`
	Number  string          `json:"cardNumber"`
	Expiry  string          `json:"expiryDate"`
	Network CardNetwork     `json:"type"`
	Variant string          `json:"variant,omitempty"`
	Alias   string          `json:"alias,omitempty"`
	Frozen  bool            `json:"isFrozen,omitempty"`
}

// LastFour returns the trailing four digits of the masked card number.
func (c *Card) LastFour() string {
	digits := strings.ReplaceAll(c.Number, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Label renders the card the way payment methods are shown on records.
func (c *Card) Label() string {
	return fmt.Sprintf("%s •••• %s", c.Network, c.LastFour())
}

// Validate checks the fields required to store a card.
func (c *Card) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: card missing id", ErrInvalidRecord)
	}
	if strings.TrimSpace(c.Holder) == "" {
		return fmt.Errorf("%w: card %s missing holder", ErrInvalidRecord, c.ID)
	}
	switch c.Network {
	case NetworkVisa, NetworkMasterCard:
	default:
		return fmt.Errorf("%w: card %s has unsupported network %q", ErrInvalidRecord, c.ID, c.Network)
	}
	return nil
}
