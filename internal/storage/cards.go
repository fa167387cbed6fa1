package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/maglo/internal/model"
)

const cardColumns = `id, holder, number, expiry, network, variant, alias, balance, frozen`

// SaveCard inserts or updates a card. Cards keep their original position
// in the wallet when updated.
func (s *SQLiteStorage) SaveCard(ctx context.Context, card *model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCard(card); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			holder = excluded.holder,
			number = excluded.number,
			expiry = excluded.expiry,
			network = excluded.network,
			variant = excluded.variant,
			alias = excluded.alias,
			balance = excluded.balance,
			frozen = excluded.frozen
	`,
		card.ID,
		card.Holder,
		card.Number,
		card.Expiry,
		string(card.Network),
		card.Variant,
		card.Alias,
		card.Balance,
		card.Frozen,
	)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.ID, err)
	}
	return nil
}

// GetCards returns every card in wallet order.
func (s *SQLiteStorage) GetCards(ctx context.Context) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []model.Card{}
	for rows.Next() {
		c, scanErr := scanCard(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}

// GetCard returns a card by ID.
func (s *SQLiteStorage) GetCard(ctx context.Context, id string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	c, err := scanCard(s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	return c, err
}

func scanCard(row scanner) (*model.Card, error) {
	var (
		c       model.Card
		network string
	)
	err := row.Scan(
		&c.ID,
		&c.Holder,
		&c.Number,
		&c.Expiry,
		&network,
		&c.Variant,
		&c.Alias,
		&c.Balance,
		&c.Frozen,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}
	c.Network = model.CardNetwork(network)
	return &c, nil
}
