package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/persistence"
)

type stubScheduleRepo struct {
	profiles map[string]persistence.ScheduleProfile
	entries  map[string]persistence.ScheduleEntry
}

func newStubScheduleRepo() *stubScheduleRepo {
	return &stubScheduleRepo{
		profiles: make(map[string]persistence.ScheduleProfile),
		entries:  make(map[string]persistence.ScheduleEntry),
	}
}

func (r *stubScheduleRepo) GetProfile(_ context.Context, ownerID string) (persistence.ScheduleProfile, error) {
	profile, ok := r.profiles[ownerID]
	if !ok {
		return persistence.ScheduleProfile{}, persistence.ErrNotFound
	}
	return profile, nil
}

func (r *stubScheduleRepo) UpsertProfile(_ context.Context, profile persistence.ScheduleProfile) (persistence.ScheduleProfile, error) {
	if existing, ok := r.profiles[profile.OwnerID]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	r.profiles[profile.OwnerID] = profile
	return profile, nil
}

func (r *stubScheduleRepo) DeleteOwnerSchedules(_ context.Context, ownerID string) error {
	for id, entry := range r.entries {
		if entry.OwnerID == ownerID {
			delete(r.entries, id)
		}
	}
	delete(r.profiles, ownerID)
	return nil
}

func (r *stubScheduleRepo) CreateEntry(_ context.Context, entry persistence.ScheduleEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *stubScheduleRepo) GetEntry(_ context.Context, id string) (persistence.ScheduleEntry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return persistence.ScheduleEntry{}, persistence.ErrNotFound
	}
	return entry, nil
}

func (r *stubScheduleRepo) UpdateEntry(_ context.Context, entry persistence.ScheduleEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *stubScheduleRepo) DeleteEntry(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *stubScheduleRepo) ListEntries(_ context.Context) ([]persistence.ScheduleEntry, error) {
	entries := make([]persistence.ScheduleEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *stubScheduleRepo) FindAlwaysEntry(_ context.Context, ownerID string) (persistence.ScheduleEntry, error) {
	for _, entry := range r.entries {
		if entry.OwnerID == ownerID && entry.Always {
			return entry, nil
		}
	}
	return persistence.ScheduleEntry{}, persistence.ErrNotFound
}

type stubStaffDirectory struct {
	numbers map[string]persistence.StaffMember
}

func (d *stubStaffDirectory) GetStaffByPhoneNumber(_ context.Context, phoneNumber string) (persistence.StaffMember, error) {
	member, ok := d.numbers[phoneNumber]
	if !ok {
		return persistence.StaffMember{}, persistence.ErrNotFound
	}
	return member, nil
}

func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("id-%d", next)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newScheduleFixture(t *testing.T) (*ScheduleService, *stubScheduleRepo) {
	t.Helper()

	repo := newStubScheduleRepo()
	staff := &stubStaffDirectory{numbers: map[string]persistence.StaffMember{
		"+15551230000": {ID: "staff-1", PhoneNumber: "+15551230000", Active: true},
		"+15551230001": {ID: "staff-2", PhoneNumber: "+15551230001", Active: true},
	}}
	now := fixedClock(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))
	return NewScheduleService(repo, staff, nil, sequentialIDs(), now), repo
}

func linkAndCreate(t *testing.T, svc *ScheduleService, ownerID, phone string, input EntryInput) persistence.ScheduleEntry {
	t.Helper()

	_, err := svc.LinkProfile(context.Background(), ownerID, phone)
	require.NoError(t, err)
	entry, err := svc.CreateEntry(context.Background(), ownerID, input)
	require.NoError(t, err)
	return entry
}

func TestLinkProfileUnknownStaff(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	_, err := svc.LinkProfile(context.Background(), "alice", "+19990000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinkProfileMissingNumber(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	_, err := svc.LinkProfile(context.Background(), "alice", "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "phoneNumber")
}

func TestCreateEntryRequiresProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	_, err := svc.CreateEntry(context.Background(), "alice", EntryInput{
		StartTime: "09:00", EndTime: "17:00", Date: "2024-06-03",
	})
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestCreateEntryRejectsBadWindows(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input EntryInput
		field string
	}{
		{"equal times", EntryInput{StartTime: "09:00", EndTime: "09:00", Date: "2024-06-03"}, "startTime"},
		{"reversed times", EntryInput{StartTime: "10:00", EndTime: "09:00", Date: "2024-06-03"}, "startTime"},
		{"missing date", EntryInput{StartTime: "09:00", EndTime: "17:00"}, "date"},
		{"missing start", EntryInput{EndTime: "17:00", Date: "2024-06-03"}, "startTime"},
		{"missing end", EntryInput{StartTime: "09:00", Date: "2024-06-03"}, "endTime"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, _ := newScheduleFixture(t)
			_, err := svc.LinkProfile(context.Background(), "alice", "+15551230000")
			require.NoError(t, err)

			_, err = svc.CreateEntry(context.Background(), "alice", tc.input)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.FieldErrors, tc.field)
		})
	}
}

func TestCreateEntryCopiesProfileNumber(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	entry := linkAndCreate(t, svc, "alice", "+15551230000", EntryInput{
		StartTime: "09:00", EndTime: "17:00", Date: "2024-06-03",
	})

	assert.Equal(t, "+15551230000", entry.PhoneNumber)
	assert.NotEmpty(t, entry.ID)
}

func TestCreateAlwaysEntryAppliesSentinels(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	entry := linkAndCreate(t, svc, "alice", "+15551230000", EntryInput{
		Always: true, StartTime: "11:00", EndTime: "12:00", Date: "1999-01-01", Recurring: true,
	})

	assert.Equal(t, "00:00", entry.StartTime)
	assert.Equal(t, "23:59", entry.EndTime)
	assert.Equal(t, "2024-06-03", entry.Date)
	assert.False(t, entry.Recurring)
	assert.Nil(t, entry.DayOfWeek)
}

func TestSecondAlwaysEntryConflicts(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	linkAndCreate(t, svc, "alice", "+15551230000", EntryInput{Always: true})

	_, err := svc.CreateEntry(context.Background(), "alice", EntryInput{Always: true})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUnlinkRemovesEntriesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	linkAndCreate(t, svc, "alice", "+15551230000", EntryInput{Always: true})

	require.NoError(t, svc.UnlinkProfile(context.Background(), "alice"))

	onCall, err := svc.OnCallForDate(context.Background(), time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, onCall)

	_, err = svc.GetProfile(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.UnlinkProfile(context.Background(), "alice"))
}

func TestUpdateAndDeleteEnforceOwnership(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	entry := linkAndCreate(t, svc, "alice", "+15551230000", EntryInput{
		StartTime: "09:00", EndTime: "17:00", Date: "2024-06-03",
	})
	_, err := svc.LinkProfile(context.Background(), "bob", "+15551230001")
	require.NoError(t, err)

	newStart := "10:00"
	_, err = svc.UpdateEntry(context.Background(), "bob", entry.ID, EntryPatch{StartTime: &newStart})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteEntry(context.Background(), "bob", entry.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteEntry(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEntryMergesAndRevalidates(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	entry := linkAndCreate(t, svc, "alice", "+15551230000", EntryInput{
		StartTime: "09:00", EndTime: "17:00", Date: "2024-06-03",
	})

	newStart := "10:00"
	updated, err := svc.UpdateEntry(context.Background(), "alice", entry.ID, EntryPatch{StartTime: &newStart})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, "17:00", updated.EndTime)
	assert.Equal(t, "2024-06-03", updated.Date)

	badStart := "18:00"
	_, err = svc.UpdateEntry(context.Background(), "alice", entry.ID, EntryPatch{StartTime: &badStart})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "startTime")
}

func TestOnCallForDateRecurringAnchor(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	monday := 1
	entry := linkAndCreate(t, svc, "alice", "+15551230000", EntryInput{
		StartTime: "09:00", EndTime: "17:00", Date: "2024-06-03",
		Recurring: true, DayOfWeek: &monday,
	})

	nextMonday, err := svc.OnCallForDate(context.Background(), time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, nextMonday, 1)
	assert.Equal(t, entry.ID, nextMonday[0].ID)

	priorMonday, err := svc.OnCallForDate(context.Background(), time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, priorMonday)
}

func TestOnCallForDateAlwaysEntry(t *testing.T) {
	t.Parallel()

	svc, _ := newScheduleFixture(t)
	entry := linkAndCreate(t, svc, "bob", "+15551230001", EntryInput{Always: true})

	for _, date := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC),
	} {
		onCall, err := svc.OnCallForDate(context.Background(), date)
		require.NoError(t, err)
		require.Len(t, onCall, 1)
		assert.Equal(t, entry.ID, onCall[0].ID)
	}
}
