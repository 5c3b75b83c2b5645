package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// InsertAnnotation records the sender of an outbound message SID.
func (s *Store) InsertAnnotation(ctx context.Context, annotation persistence.MessageAnnotation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO message_annotations (id, message_sid, sender, created_at) VALUES (?, ?, ?, ?)`,
		annotation.ID,
		annotation.MessageSID,
		annotation.Sender,
		formatTime(annotation.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert annotation: %w", err)
	}
	return nil
}

// GetAnnotation returns the annotation recorded for a message SID.
func (s *Store) GetAnnotation(ctx context.Context, messageSID string) (persistence.MessageAnnotation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, message_sid, sender, created_at FROM message_annotations WHERE message_sid = ? LIMIT 1`,
		messageSID,
	)

	var annotation persistence.MessageAnnotation
	var createdAt string
	if err := row.Scan(&annotation.ID, &annotation.MessageSID, &annotation.Sender, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.MessageAnnotation{}, persistence.ErrNotFound
		}
		return persistence.MessageAnnotation{}, fmt.Errorf("sqlite: get annotation: %w", err)
	}
	annotation.CreatedAt = parseTime(createdAt)
	return annotation, nil
}

// ListAnnotations returns annotations for the given message SIDs.
func (s *Store) ListAnnotations(ctx context.Context, messageSIDs []string) ([]persistence.MessageAnnotation, error) {
	if len(messageSIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(messageSIDs))
	for _, sid := range messageSIDs {
		args = append(args, sid)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message_sid, sender, created_at FROM message_annotations
		 WHERE message_sid IN (`+placeholders(len(messageSIDs))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list annotations: %w", err)
	}
	defer rows.Close()

	var annotations []persistence.MessageAnnotation
	for rows.Next() {
		var annotation persistence.MessageAnnotation
		var createdAt string
		if err := rows.Scan(&annotation.ID, &annotation.MessageSID, &annotation.Sender, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: list annotations: %w", err)
		}
		annotation.CreatedAt = parseTime(createdAt)
		annotations = append(annotations, annotation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list annotations: %w", err)
	}
	return annotations, nil
}
