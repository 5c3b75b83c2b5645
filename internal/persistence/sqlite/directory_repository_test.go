package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/persistence"
)

func TestStaffCreateAndDuplicate(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	member := persistence.StaffMember{ID: "staff-1", PhoneNumber: "+15551230000", Active: true, CreatedAt: testTime}
	require.NoError(t, store.CreateStaff(ctx, member))

	dup := persistence.StaffMember{ID: "staff-2", PhoneNumber: "+15551230000", Active: true, CreatedAt: testTime}
	assert.ErrorIs(t, store.CreateStaff(ctx, dup), persistence.ErrDuplicate)

	stored, err := store.GetStaffByPhoneNumber(ctx, "+15551230000")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", stored.ID)
	assert.True(t, stored.Active)
}

func TestStaffActiveToggleAndDelete(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	member := persistence.StaffMember{ID: "staff-1", PhoneNumber: "+15551230001", Active: true, CreatedAt: testTime}
	require.NoError(t, store.CreateStaff(ctx, member))

	require.NoError(t, store.SetStaffActive(ctx, "+15551230001", false))
	stored, err := store.GetStaffByPhoneNumber(ctx, "+15551230001")
	require.NoError(t, err)
	assert.False(t, stored.Active)

	assert.ErrorIs(t, store.SetStaffActive(ctx, "+19990000000", true), persistence.ErrNotFound)

	require.NoError(t, store.DeleteStaff(ctx, "+15551230001"))
	assert.ErrorIs(t, store.DeleteStaff(ctx, "+15551230001"), persistence.ErrNotFound)
}

func TestStaffListOrdering(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	for i, number := range []string{"+15551230001", "+15551230002", "+15551230003"} {
		member := persistence.StaffMember{
			ID:          number,
			PhoneNumber: number,
			Active:      true,
			CreatedAt:   testTime.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.CreateStaff(ctx, member))
	}

	members, err := store.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "+15551230001", members[0].PhoneNumber)
	assert.Equal(t, "+15551230003", members[2].PhoneNumber)
}

func TestPhonebookCRUD(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	entry := persistence.PhonebookEntry{
		ID:          "pb-1",
		Name:        "Plumber",
		Description: "after hours",
		PhoneNumber: "+15557770000",
		CreatedAt:   testTime,
	}
	require.NoError(t, store.CreatePhonebookEntry(ctx, entry))

	stored, err := store.GetPhonebookEntry(ctx, "pb-1")
	require.NoError(t, err)
	assert.Equal(t, "Plumber", stored.Name)
	assert.Nil(t, stored.UpdatedAt)

	updatedAt := testTime.Add(time.Hour)
	entry.Name = "Emergency plumber"
	entry.UpdatedAt = &updatedAt
	require.NoError(t, store.UpdatePhonebookEntry(ctx, entry))

	stored, err = store.GetPhonebookEntry(ctx, "pb-1")
	require.NoError(t, err)
	assert.Equal(t, "Emergency plumber", stored.Name)
	require.NotNil(t, stored.UpdatedAt)
	assert.Equal(t, updatedAt, *stored.UpdatedAt)

	missing := entry
	missing.ID = "missing"
	assert.ErrorIs(t, store.UpdatePhonebookEntry(ctx, missing), persistence.ErrNotFound)

	require.NoError(t, store.DeletePhonebookEntry(ctx, "pb-1"))
	assert.ErrorIs(t, store.DeletePhonebookEntry(ctx, "pb-1"), persistence.ErrNotFound)

	entries, err := store.ListPhonebookEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNoteUpsertAndBatch(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	note := persistence.ConversationNote{
		OwnerID:     "owner-a",
		PhoneNumber: "+15550001111",
		Notes:       "asked about invoice",
		UpdatedAt:   testTime,
	}
	require.NoError(t, store.UpsertNote(ctx, note))

	note.Notes = "resolved"
	note.Done = true
	note.UpdatedAt = testTime.Add(time.Hour)
	require.NoError(t, store.UpsertNote(ctx, note))

	stored, err := store.GetNote(ctx, "owner-a", "+15550001111")
	require.NoError(t, err)
	assert.Equal(t, "resolved", stored.Notes)
	assert.True(t, stored.Done)

	other := persistence.ConversationNote{OwnerID: "owner-a", PhoneNumber: "+15550002222", Notes: "new", UpdatedAt: testTime}
	require.NoError(t, store.UpsertNote(ctx, other))
	foreign := persistence.ConversationNote{OwnerID: "owner-b", PhoneNumber: "+15550001111", Notes: "theirs", UpdatedAt: testTime}
	require.NoError(t, store.UpsertNote(ctx, foreign))

	notes, err := store.ListNotes(ctx, "owner-a", []string{"+15550001111", "+15550002222", "+15550009999"})
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	_, err = store.GetNote(ctx, "owner-a", "+15550009999")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestAnnotationInsertAndLookup(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	annotation := persistence.MessageAnnotation{
		ID:         "ann-1",
		MessageSID: "SM123",
		Sender:     "owner-a",
		CreatedAt:  testTime,
	}
	require.NoError(t, store.InsertAnnotation(ctx, annotation))

	stored, err := store.GetAnnotation(ctx, "SM123")
	require.NoError(t, err)
	assert.Equal(t, "owner-a", stored.Sender)

	_, err = store.GetAnnotation(ctx, "SM999")
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	require.NoError(t, store.InsertAnnotation(ctx, persistence.MessageAnnotation{
		ID: "ann-2", MessageSID: "SM456", Sender: "owner-b", CreatedAt: testTime,
	}))

	annotations, err := store.ListAnnotations(ctx, []string{"SM123", "SM456", "SM999"})
	require.NoError(t, err)
	assert.Len(t, annotations, 2)

	annotations, err = store.ListAnnotations(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, annotations)
}

func TestConfigValues(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetConfigValue(ctx, "inbound_number", "+15550000001"))
	require.NoError(t, store.SetConfigValue(ctx, "outbound_number", "+15550000002"))
	require.NoError(t, store.SetConfigValue(ctx, "inbound_number", "+15550000003"))

	values, err := store.GetConfigValues(ctx, []string{"inbound_number", "outbound_number", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"inbound_number":  "+15550000003",
		"outbound_number": "+15550000002",
	}, values)
}
