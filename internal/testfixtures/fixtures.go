package testfixtures

import (
	"github.com/example/oncall-dispatch/internal/persistence"
)

// StaffNumber is the staff phone number fixtures link profiles to.
const StaffNumber = "+15551230000"

// Profile returns a linked schedule profile for ownerID.
func Profile(ownerID string) persistence.ScheduleProfile {
	return persistence.ScheduleProfile{
		OwnerID:     ownerID,
		PhoneNumber: StaffNumber,
		CreatedAt:   ReferenceTime(),
		UpdatedAt:   ReferenceTime(),
	}
}

// Staff returns an active staff member with the given phone number.
func Staff(id, phoneNumber string) persistence.StaffMember {
	return persistence.StaffMember{
		ID:          id,
		PhoneNumber: phoneNumber,
		Active:      true,
		CreatedAt:   ReferenceTime(),
	}
}

// RecurringEntry returns a weekly entry anchored at ReferenceTime's Monday.
func RecurringEntry(id, ownerID string) persistence.ScheduleEntry {
	monday := 1
	return persistence.ScheduleEntry{
		ID:          id,
		OwnerID:     ownerID,
		PhoneNumber: StaffNumber,
		StartTime:   "09:00",
		EndTime:     "17:00",
		DayOfWeek:   &monday,
		Recurring:   true,
		Date:        ReferenceTime().Format("2006-01-02"),
		CreatedAt:   ReferenceTime(),
	}
}

// AlwaysEntry returns an always-on-call entry with full-day sentinels.
func AlwaysEntry(id, ownerID string) persistence.ScheduleEntry {
	return persistence.ScheduleEntry{
		ID:          id,
		OwnerID:     ownerID,
		PhoneNumber: StaffNumber,
		StartTime:   "00:00",
		EndTime:     "23:59",
		Always:      true,
		Date:        ReferenceTime().Format("2006-01-02"),
		CreatedAt:   ReferenceTime(),
	}
}
