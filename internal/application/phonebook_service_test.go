package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/persistence"
)

type stubPhonebookRepo struct {
	entries map[string]persistence.PhonebookEntry
}

func newStubPhonebookRepo() *stubPhonebookRepo {
	return &stubPhonebookRepo{entries: make(map[string]persistence.PhonebookEntry)}
}

func (r *stubPhonebookRepo) CreatePhonebookEntry(_ context.Context, entry persistence.PhonebookEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *stubPhonebookRepo) GetPhonebookEntry(_ context.Context, id string) (persistence.PhonebookEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return persistence.PhonebookEntry{}, persistence.ErrNotFound
	}
	return entry, nil
}

func (r *stubPhonebookRepo) UpdatePhonebookEntry(_ context.Context, entry persistence.PhonebookEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *stubPhonebookRepo) DeletePhonebookEntry(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *stubPhonebookRepo) ListPhonebookEntries(_ context.Context) ([]persistence.PhonebookEntry, error) {
	entries := make([]persistence.PhonebookEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

func TestPhonebookCreateValidates(t *testing.T) {
	t.Parallel()

	svc := NewPhonebookService(newStubPhonebookRepo(), sequentialIDs(), nil)
	_, err := svc.CreateEntry(context.Background(), PhonebookInput{Description: "plumber"})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "name")
	assert.Contains(t, vErr.FieldErrors, "phoneNumber")
}

func TestPhonebookUpdateSetsTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	svc := NewPhonebookService(newStubPhonebookRepo(), sequentialIDs(), fixedClock(now))

	entry, err := svc.CreateEntry(context.Background(), PhonebookInput{Name: "Plumber", PhoneNumber: "+15550001111"})
	require.NoError(t, err)
	assert.Nil(t, entry.UpdatedAt)

	updated, err := svc.UpdateEntry(context.Background(), entry.ID, PhonebookInput{Name: "Plumber Co", PhoneNumber: "+15550001111"})
	require.NoError(t, err)
	assert.Equal(t, "Plumber Co", updated.Name)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, now, *updated.UpdatedAt)
}

func TestPhonebookUpdateMissingEntry(t *testing.T) {
	t.Parallel()

	svc := NewPhonebookService(newStubPhonebookRepo(), nil, nil)
	_, err := svc.UpdateEntry(context.Background(), "missing", PhonebookInput{Name: "x", PhoneNumber: "+1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPhonebookDelete(t *testing.T) {
	t.Parallel()

	svc := NewPhonebookService(newStubPhonebookRepo(), sequentialIDs(), nil)
	entry, err := svc.CreateEntry(context.Background(), PhonebookInput{Name: "Plumber", PhoneNumber: "+15550001111"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(context.Background(), entry.ID))
	assert.ErrorIs(t, svc.DeleteEntry(context.Background(), entry.ID), ErrNotFound)
}
