package persistence

import "time"

// ScheduleProfile links an authenticated owner to the staff phone number that
// receives their on-call alerts. One profile exists per owner.
type ScheduleProfile struct {
	OwnerID     string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScheduleEntry represents one on-call window stored in persistence.
//
// StartTime and EndTime are zero-padded HH:MM strings; Date is a YYYY-MM-DD
// string. Always entries carry the full-day sentinels and ignore DayOfWeek
// and Date when matched.
type ScheduleEntry struct {
	ID          string
	OwnerID     string
	PhoneNumber string
	StartTime   string
	EndTime     string
	DayOfWeek   *int
	Recurring   bool
	Always      bool
	Date        string
	CreatedAt   time.Time
}

// StaffMember is a phone number eligible for on-call duty and alerting.
type StaffMember struct {
	ID          string
	PhoneNumber string
	Active      bool
	CreatedAt   time.Time
}

// PhonebookEntry is a named contact shown on the dashboard phonebook page.
type PhonebookEntry struct {
	ID          string
	Name        string
	Description string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ConversationNote holds a user's private notes for one conversation thread,
// keyed by the counterpart phone number.
type ConversationNote struct {
	OwnerID     string
	PhoneNumber string
	Notes       string
	Done        bool
	UpdatedAt   time.Time
}

// MessageAnnotation attributes an outbound message SID to the staff member
// who sent it through the dashboard.
type MessageAnnotation struct {
	ID         string
	MessageSID string
	Sender     string
	CreatedAt  time.Time
}

// ConfigValue is a runtime configuration key/value pair.
type ConfigValue struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
