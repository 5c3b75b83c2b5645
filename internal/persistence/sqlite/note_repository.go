package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// GetNote returns the note one owner keeps for a conversation.
func (s *Store) GetNote(ctx context.Context, ownerID, phoneNumber string) (persistence.ConversationNote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT owner_id, phone_number, notes, done, updated_at
		 FROM conversation_notes WHERE owner_id = ? AND phone_number = ?`,
		ownerID, phoneNumber,
	)

	var note persistence.ConversationNote
	var done int
	var updatedAt string
	if err := row.Scan(&note.OwnerID, &note.PhoneNumber, &note.Notes, &done, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ConversationNote{}, persistence.ErrNotFound
		}
		return persistence.ConversationNote{}, fmt.Errorf("sqlite: get note: %w", err)
	}
	note.Done = done != 0
	note.UpdatedAt = parseTime(updatedAt)
	return note, nil
}

// ListNotes returns the owner's notes for the given conversation numbers.
func (s *Store) ListNotes(ctx context.Context, ownerID string, phoneNumbers []string) ([]persistence.ConversationNote, error) {
	if len(phoneNumbers) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(phoneNumbers)+1)
	args = append(args, ownerID)
	for _, number := range phoneNumbers {
		args = append(args, number)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, phone_number, notes, done, updated_at
		 FROM conversation_notes
		 WHERE owner_id = ? AND phone_number IN (`+placeholders(len(phoneNumbers))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list notes: %w", err)
	}
	defer rows.Close()

	var notes []persistence.ConversationNote
	for rows.Next() {
		var note persistence.ConversationNote
		var done int
		var updatedAt string
		if err := rows.Scan(&note.OwnerID, &note.PhoneNumber, &note.Notes, &done, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: list notes: %w", err)
		}
		note.Done = done != 0
		note.UpdatedAt = parseTime(updatedAt)
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list notes: %w", err)
	}
	return notes, nil
}

// UpsertNote inserts or replaces the note for (owner, phone number).
func (s *Store) UpsertNote(ctx context.Context, note persistence.ConversationNote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_notes (owner_id, phone_number, notes, done, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, phone_number) DO UPDATE SET
			notes = excluded.notes,
			done = excluded.done,
			updated_at = excluded.updated_at`,
		note.OwnerID,
		note.PhoneNumber,
		note.Notes,
		boolToInt(note.Done),
		formatTime(note.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert note: %w", err)
	}
	return nil
}
