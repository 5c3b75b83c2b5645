package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// CreatePhonebookEntry inserts a new contact.
func (s *Store) CreatePhonebookEntry(ctx context.Context, entry persistence.PhonebookEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO phonebook (id, name, description, phone_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, NULL)`,
		entry.ID,
		entry.Name,
		entry.Description,
		entry.PhoneNumber,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create phonebook entry: %w", err)
	}
	return nil
}

// GetPhonebookEntry returns a contact by identifier.
func (s *Store) GetPhonebookEntry(ctx context.Context, id string) (persistence.PhonebookEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, phone_number, created_at, updated_at FROM phonebook WHERE id = ?`,
		id,
	)
	entry, err := scanPhonebookEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.PhonebookEntry{}, persistence.ErrNotFound
		}
		return persistence.PhonebookEntry{}, fmt.Errorf("sqlite: get phonebook entry: %w", err)
	}
	return entry, nil
}

// UpdatePhonebookEntry replaces the contact fields of an entry.
func (s *Store) UpdatePhonebookEntry(ctx context.Context, entry persistence.PhonebookEntry) error {
	var updatedAt sql.NullString
	if entry.UpdatedAt != nil {
		updatedAt = sql.NullString{String: formatTime(*entry.UpdatedAt), Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE phonebook SET name = ?, description = ?, phone_number = ?, updated_at = ? WHERE id = ?`,
		entry.Name,
		entry.Description,
		entry.PhoneNumber,
		updatedAt,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update phonebook entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update phonebook entry: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeletePhonebookEntry removes a contact by identifier.
func (s *Store) DeletePhonebookEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM phonebook WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete phonebook entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete phonebook entry: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListPhonebookEntries returns all contacts ordered by creation time.
func (s *Store) ListPhonebookEntries(ctx context.Context) ([]persistence.PhonebookEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, phone_number, created_at, updated_at FROM phonebook ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list phonebook: %w", err)
	}
	defer rows.Close()

	var entries []persistence.PhonebookEntry
	for rows.Next() {
		entry, err := scanPhonebookEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list phonebook: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list phonebook: %w", err)
	}
	return entries, nil
}

func scanPhonebookEntry(row rowScanner) (persistence.PhonebookEntry, error) {
	var entry persistence.PhonebookEntry
	var createdAt string
	var updatedAt sql.NullString

	err := row.Scan(&entry.ID, &entry.Name, &entry.Description, &entry.PhoneNumber, &createdAt, &updatedAt)
	if err != nil {
		return persistence.PhonebookEntry{}, err
	}

	entry.CreatedAt = parseTime(createdAt)
	if updatedAt.Valid {
		ts := parseTime(updatedAt.String)
		entry.UpdatedAt = &ts
	}
	return entry, nil
}
