package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// NoteRepository captures the persistence interactions needed by the service.
type NoteRepository interface {
	GetNote(ctx context.Context, ownerID, phoneNumber string) (persistence.ConversationNote, error)
	ListNotes(ctx context.Context, ownerID string, phoneNumbers []string) ([]persistence.ConversationNote, error)
	UpsertNote(ctx context.Context, note persistence.ConversationNote) error
}

// NoteService manages per-user conversation notes keyed by counterpart number.
type NoteService struct {
	notes NoteRepository
	now   func() time.Time
}

// NewNoteService wires dependencies for conversation note operations.
func NewNoteService(notes NoteRepository, now func() time.Time) *NoteService {
	if now == nil {
		now = time.Now
	}
	return &NoteService{notes: notes, now: now}
}

// GetNote returns the caller's note for a conversation. A missing note is
// returned as an empty, not-done note rather than an error so the dashboard
// can render a blank editor.
func (s *NoteService) GetNote(ctx context.Context, ownerID, phoneNumber string) (persistence.ConversationNote, error) {
	note, err := s.notes.GetNote(ctx, ownerID, phoneNumber)
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.ConversationNote{OwnerID: ownerID, PhoneNumber: phoneNumber}, nil
	}
	if err != nil {
		return persistence.ConversationNote{}, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListNotes returns the caller's notes for the given conversations.
func (s *NoteService) ListNotes(ctx context.Context, ownerID string, phoneNumbers []string) ([]persistence.ConversationNote, error) {
	notes, err := s.notes.ListNotes(ctx, ownerID, phoneNumbers)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// SaveNote creates or updates the caller's note for a conversation. The
// update is partial: nil fields keep their stored value, but at least one of
// text/done must be supplied.
func (s *NoteService) SaveNote(ctx context.Context, ownerID, phoneNumber string, text *string, done *bool) (persistence.ConversationNote, error) {
	vErr := &ValidationError{}
	if phoneNumber == "" {
		vErr.add("phoneNumber", "phone number is required")
	}
	if text == nil && done == nil {
		vErr.add("notes", "supply notes or done")
	}
	if vErr.HasErrors() {
		return persistence.ConversationNote{}, vErr
	}

	note, err := s.GetNote(ctx, ownerID, phoneNumber)
	if err != nil {
		return persistence.ConversationNote{}, err
	}
	if text != nil {
		note.Notes = *text
	}
	if done != nil {
		note.Done = *done
	}
	note.UpdatedAt = s.now()

	if err := s.notes.UpsertNote(ctx, note); err != nil {
		return persistence.ConversationNote{}, fmt.Errorf("save note: %w", err)
	}
	return note, nil
}
