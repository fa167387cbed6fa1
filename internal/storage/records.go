package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/maglo/internal/model"
)

// dateLayout keeps stored dates in UTC with a fixed width so that text
// ordering matches chronological ordering.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

const recordColumns = `id, collection, title, category, amount, kind, date,
	status, recipient, notes, payment_method, card_id`

// SaveRecords inserts or updates records.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.Record) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveRecordsTx(ctx, tx, records)
	})
}

func (s *SQLiteStorage) saveRecordsTx(ctx context.Context, tx *sql.Tx, records []model.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			collection = excluded.collection,
			title = excluded.title,
			category = excluded.category,
			amount = excluded.amount,
			kind = excluded.kind,
			date = excluded.date,
			status = excluded.status,
			recipient = excluded.recipient,
			notes = excluded.notes,
			payment_method = excluded.payment_method,
			card_id = excluded.card_id,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.ID,
			string(r.Collection()),
			r.Title,
			r.Category,
			r.Amount,
			string(r.Kind),
			r.Date.UTC().Format(dateLayout),
			string(r.Status),
			r.Recipient,
			r.Notes,
			r.PaymentMethod,
			r.CardID,
		)
		if err != nil {
			return fmt.Errorf("failed to save record %s: %w", r.ID, err)
		}
	}
	return nil
}

// GetRecords returns the records of a collection, newest first. An empty
// collection returns every record.
func (s *SQLiteStorage) GetRecords(ctx context.Context, collection model.Collection) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + recordColumns + ` FROM records`
	var args []any
	if collection != "" {
		query += ` WHERE collection = ?`
		args = append(args, string(collection))
	}
	query += ` ORDER BY date DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []model.Record{}
	for rows.Next() {
		r, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// GetRecord returns a single record by ID.
func (s *SQLiteStorage) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return r, err
}

// DeleteRecord removes a record by ID.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountRecords counts the records of a collection. An empty collection
// counts every record.
func (s *SQLiteStorage) CountRecords(ctx context.Context, collection model.Collection) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := `SELECT COUNT(*) FROM records`
	var args []any
	if collection != "" {
		query += ` WHERE collection = ?`
		args = append(args, string(collection))
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*model.Record, error) {
	var (
		r          model.Record
		collection string
		kind       string
		date       string
		status     string
	)
	err := row.Scan(
		&r.ID,
		&collection,
		&r.Title,
		&r.Category,
		&r.Amount,
		&kind,
		&date,
		&status,
		&r.Recipient,
		&r.Notes,
		&r.PaymentMethod,
		&r.CardID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("record %s has malformed date %q: %w", r.ID, date, err)
	}
	r.Date = parsed.Local()
	r.Kind = model.Kind(kind)
	r.Status = model.Status(status)
	return &r, nil
}
