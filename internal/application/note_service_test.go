package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/persistence"
)

type stubNoteRepo struct {
	notes map[string]persistence.ConversationNote
}

func noteKey(ownerID, phoneNumber string) string { return ownerID + "|" + phoneNumber }

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{notes: make(map[string]persistence.ConversationNote)}
}

func (r *stubNoteRepo) GetNote(_ context.Context, ownerID, phoneNumber string) (persistence.ConversationNote, error) {
	note, ok := r.notes[noteKey(ownerID, phoneNumber)]
	if !ok {
		return persistence.ConversationNote{}, persistence.ErrNotFound
	}
	return note, nil
}

func (r *stubNoteRepo) ListNotes(_ context.Context, ownerID string, phoneNumbers []string) ([]persistence.ConversationNote, error) {
	var notes []persistence.ConversationNote
	for _, phoneNumber := range phoneNumbers {
		if note, ok := r.notes[noteKey(ownerID, phoneNumber)]; ok {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (r *stubNoteRepo) UpsertNote(_ context.Context, note persistence.ConversationNote) error {
	r.notes[noteKey(note.OwnerID, note.PhoneNumber)] = note
	return nil
}

func TestGetNoteMissingReturnsBlank(t *testing.T) {
	t.Parallel()

	svc := NewNoteService(newStubNoteRepo(), nil)
	note, err := svc.GetNote(context.Background(), "alice", "+15550001111")
	require.NoError(t, err)
	assert.Equal(t, "alice", note.OwnerID)
	assert.Equal(t, "+15550001111", note.PhoneNumber)
	assert.Empty(t, note.Notes)
	assert.False(t, note.Done)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestSaveNotePartialUpdate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	svc := NewNoteService(newStubNoteRepo(), fixedClock(now))

	_, err := svc.SaveNote(context.Background(), "alice", "+15550001111", strPtr("first draft"), nil)
	require.NoError(t, err)

	saved, err := svc.SaveNote(context.Background(), "alice", "+15550001111", nil, boolPtr(true))
	require.NoError(t, err)
	assert.Equal(t, now, saved.UpdatedAt)

	note, err := svc.GetNote(context.Background(), "alice", "+15550001111")
	require.NoError(t, err)
	assert.Equal(t, "first draft", note.Notes)
	assert.True(t, note.Done)
}

func TestSaveNoteValidation(t *testing.T) {
	t.Parallel()

	svc := NewNoteService(newStubNoteRepo(), nil)

	_, err := svc.SaveNote(context.Background(), "alice", "", strPtr("text"), nil)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "phoneNumber")

	_, err = svc.SaveNote(context.Background(), "alice", "+15550001111", nil, nil)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "notes")
}

func TestNotesAreOwnerScoped(t *testing.T) {
	t.Parallel()

	svc := NewNoteService(newStubNoteRepo(), nil)
	_, err := svc.SaveNote(context.Background(), "alice", "+15550001111", strPtr("private"), nil)
	require.NoError(t, err)

	notes, err := svc.ListNotes(context.Background(), "bob", []string{"+15550001111"})
	require.NoError(t, err)
	assert.Empty(t, notes)
}
