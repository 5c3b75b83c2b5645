package persistence

import "context"

// ScheduleRepository stores on-call profiles and schedule entries.
type ScheduleRepository interface {
	GetProfile(ctx context.Context, ownerID string) (ScheduleProfile, error)
	UpsertProfile(ctx context.Context, profile ScheduleProfile) (ScheduleProfile, error)
	// DeleteOwnerSchedules removes the owner's entries and profile together.
	// It is idempotent: unlinking an absent profile is not an error.
	DeleteOwnerSchedules(ctx context.Context, ownerID string) error

	CreateEntry(ctx context.Context, entry ScheduleEntry) error
	GetEntry(ctx context.Context, id string) (ScheduleEntry, error)
	UpdateEntry(ctx context.Context, entry ScheduleEntry) error
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context) ([]ScheduleEntry, error)
	FindAlwaysEntry(ctx context.Context, ownerID string) (ScheduleEntry, error)
	DeleteOrphanedEntries(ctx context.Context) (int64, error)
}

// StaffRepository stores the staff directory.
type StaffRepository interface {
	CreateStaff(ctx context.Context, member StaffMember) error
	GetStaffByPhoneNumber(ctx context.Context, phoneNumber string) (StaffMember, error)
	ListStaff(ctx context.Context) ([]StaffMember, error)
	SetStaffActive(ctx context.Context, phoneNumber string, active bool) error
	DeleteStaff(ctx context.Context, phoneNumber string) error
}

// PhonebookRepository stores named dashboard contacts.
type PhonebookRepository interface {
	CreatePhonebookEntry(ctx context.Context, entry PhonebookEntry) error
	GetPhonebookEntry(ctx context.Context, id string) (PhonebookEntry, error)
	UpdatePhonebookEntry(ctx context.Context, entry PhonebookEntry) error
	DeletePhonebookEntry(ctx context.Context, id string) error
	ListPhonebookEntries(ctx context.Context) ([]PhonebookEntry, error)
}

// NoteRepository stores per-user conversation notes.
type NoteRepository interface {
	GetNote(ctx context.Context, ownerID, phoneNumber string) (ConversationNote, error)
	ListNotes(ctx context.Context, ownerID string, phoneNumbers []string) ([]ConversationNote, error)
	UpsertNote(ctx context.Context, note ConversationNote) error
}

// AnnotationRepository stores outbound message attributions.
type AnnotationRepository interface {
	InsertAnnotation(ctx context.Context, annotation MessageAnnotation) error
	GetAnnotation(ctx context.Context, messageSID string) (MessageAnnotation, error)
	ListAnnotations(ctx context.Context, messageSIDs []string) ([]MessageAnnotation, error)
}

// ConfigRepository stores runtime configuration values.
type ConfigRepository interface {
	GetConfigValues(ctx context.Context, keys []string) (map[string]string, error)
	SetConfigValue(ctx context.Context, key, value string) error
}
