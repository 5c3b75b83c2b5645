package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/persistence"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func intPtr(v int) *int { return &v }

var testTime = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

func testProfile(ownerID, phoneNumber string) persistence.ScheduleProfile {
	return persistence.ScheduleProfile{
		OwnerID:     ownerID,
		PhoneNumber: phoneNumber,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func testEntry(id, ownerID string) persistence.ScheduleEntry {
	return persistence.ScheduleEntry{
		ID:          id,
		OwnerID:     ownerID,
		PhoneNumber: "+15551230000",
		StartTime:   "09:00",
		EndTime:     "17:00",
		DayOfWeek:   intPtr(1),
		Recurring:   true,
		Date:        "2024-06-03",
		CreatedAt:   testTime,
	}
}
