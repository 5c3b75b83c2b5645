// Package application orchestrates validation, persistence, and provider
// calls behind the HTTP handlers.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/oncall-dispatch/internal/metrics"
	"github.com/example/oncall-dispatch/internal/oncall"
	"github.com/example/oncall-dispatch/internal/persistence"
)

// ScheduleRepository captures the persistence interactions needed by the service.
type ScheduleRepository interface {
	GetProfile(ctx context.Context, ownerID string) (persistence.ScheduleProfile, error)
	UpsertProfile(ctx context.Context, profile persistence.ScheduleProfile) (persistence.ScheduleProfile, error)
	DeleteOwnerSchedules(ctx context.Context, ownerID string) error
	CreateEntry(ctx context.Context, entry persistence.ScheduleEntry) error
	GetEntry(ctx context.Context, id string) (persistence.ScheduleEntry, error)
	UpdateEntry(ctx context.Context, entry persistence.ScheduleEntry) error
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context) ([]persistence.ScheduleEntry, error)
	FindAlwaysEntry(ctx context.Context, ownerID string) (persistence.ScheduleEntry, error)
}

// StaffDirectory exposes the staff lookups the schedule service needs.
type StaffDirectory interface {
	GetStaffByPhoneNumber(ctx context.Context, phoneNumber string) (persistence.StaffMember, error)
}

// EntryInput carries the caller-supplied fields for a new schedule entry.
type EntryInput struct {
	StartTime string
	EndTime   string
	Date      string
	DayOfWeek *int
	Recurring bool
	Always    bool
}

// EntryPatch carries a partial update; nil fields are left unchanged.
type EntryPatch struct {
	StartTime *string
	EndTime   *string
	Date      *string
	DayOfWeek *int
	Recurring *bool
}

// ScheduleService owns profile linking and schedule entry lifecycle.
type ScheduleService struct {
	schedules   ScheduleRepository
	staff       StaffDirectory
	metrics     metrics.Sink
	idGenerator func() string
	now         func() time.Time
}

// NewScheduleService wires dependencies for schedule operations.
func NewScheduleService(schedules ScheduleRepository, staff StaffDirectory, sink metrics.Sink, idGenerator func() string, now func() time.Time) *ScheduleService {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		schedules:   schedules,
		staff:       staff,
		metrics:     sink,
		idGenerator: idGenerator,
		now:         now,
	}
}

// GetProfile returns the caller's linked profile.
func (s *ScheduleService) GetProfile(ctx context.Context, ownerID string) (persistence.ScheduleProfile, error) {
	profile, err := s.schedules.GetProfile(ctx, ownerID)
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.ScheduleProfile{}, ErrNotFound
	}
	if err != nil {
		return persistence.ScheduleProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// LinkProfile associates the caller with a staff phone number. The number
// must already exist in the staff directory.
func (s *ScheduleService) LinkProfile(ctx context.Context, ownerID, phoneNumber string) (persistence.ScheduleProfile, error) {
	if phoneNumber == "" {
		vErr := &ValidationError{}
		vErr.add("phoneNumber", "phone number is required")
		return persistence.ScheduleProfile{}, vErr
	}

	if _, err := s.staff.GetStaffByPhoneNumber(ctx, phoneNumber); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.ScheduleProfile{}, ErrNotFound
		}
		return persistence.ScheduleProfile{}, fmt.Errorf("staff lookup: %w", err)
	}

	now := s.now()
	profile, err := s.schedules.UpsertProfile(ctx, persistence.ScheduleProfile{
		OwnerID:     ownerID,
		PhoneNumber: phoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return persistence.ScheduleProfile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

// UnlinkProfile deletes the caller's entries and profile. Unlinking when no
// profile exists is not an error.
func (s *ScheduleService) UnlinkProfile(ctx context.Context, ownerID string) error {
	if err := s.schedules.DeleteOwnerSchedules(ctx, ownerID); err != nil {
		return fmt.Errorf("unlink profile: %w", err)
	}
	return nil
}

// CreateEntry validates and persists a new schedule entry for the caller.
func (s *ScheduleService) CreateEntry(ctx context.Context, ownerID string, input EntryInput) (persistence.ScheduleEntry, error) {
	profile, err := s.schedules.GetProfile(ctx, ownerID)
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.ScheduleEntry{}, ErrNotLinked
	}
	if err != nil {
		return persistence.ScheduleEntry{}, fmt.Errorf("get profile: %w", err)
	}

	now := s.now()
	if input.Always {
		_, err := s.schedules.FindAlwaysEntry(ctx, ownerID)
		switch {
		case err == nil:
			return persistence.ScheduleEntry{}, ErrConflict
		case errors.Is(err, persistence.ErrNotFound):
			// No existing always entry, proceed.
		default:
			return persistence.ScheduleEntry{}, fmt.Errorf("find always entry: %w", err)
		}
		input.StartTime = oncall.AlwaysStartTime
		input.EndTime = oncall.AlwaysEndTime
		input.Date = now.Format(oncall.DateLayout)
		input.DayOfWeek = nil
		input.Recurring = false
	} else {
		vErr := &ValidationError{}
		if input.StartTime == "" {
			vErr.add("startTime", "start time is required")
		}
		if input.EndTime == "" {
			vErr.add("endTime", "end time is required")
		}
		if input.Date == "" {
			vErr.add("date", "date is required")
		}
		if input.StartTime != "" && input.EndTime != "" && input.StartTime >= input.EndTime {
			vErr.add("startTime", "start time must be before end time")
		}
		if vErr.HasErrors() {
			return persistence.ScheduleEntry{}, vErr
		}
	}

	entry := persistence.ScheduleEntry{
		ID:          s.idGenerator(),
		OwnerID:     ownerID,
		PhoneNumber: profile.PhoneNumber,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		DayOfWeek:   input.DayOfWeek,
		Recurring:   input.Recurring,
		Always:      input.Always,
		Date:        input.Date,
		CreatedAt:   now,
	}
	if err := s.schedules.CreateEntry(ctx, entry); err != nil {
		return persistence.ScheduleEntry{}, fmt.Errorf("create entry: %w", err)
	}
	return entry, nil
}

// UpdateEntry applies a partial update to an entry the caller owns. The
// merged time window is re-validated so a patch cannot smuggle in a reversed
// range.
func (s *ScheduleService) UpdateEntry(ctx context.Context, ownerID, entryID string, patch EntryPatch) (persistence.ScheduleEntry, error) {
	entry, err := s.ownedEntry(ctx, ownerID, entryID)
	if err != nil {
		return persistence.ScheduleEntry{}, err
	}

	if patch.StartTime != nil {
		entry.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		entry.EndTime = *patch.EndTime
	}
	if patch.Date != nil {
		entry.Date = *patch.Date
	}
	if patch.DayOfWeek != nil {
		entry.DayOfWeek = patch.DayOfWeek
	}
	if patch.Recurring != nil {
		entry.Recurring = *patch.Recurring
	}

	if !entry.Always && entry.StartTime >= entry.EndTime {
		vErr := &ValidationError{}
		vErr.add("startTime", "start time must be before end time")
		return persistence.ScheduleEntry{}, vErr
	}

	if err := s.schedules.UpdateEntry(ctx, entry); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.ScheduleEntry{}, ErrNotFound
		}
		return persistence.ScheduleEntry{}, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry the caller owns.
func (s *ScheduleService) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	if _, err := s.ownedEntry(ctx, ownerID, entryID); err != nil {
		return err
	}
	if err := s.schedules.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// ListEntries returns every schedule entry. The dashboard shows the whole
// team's schedule, so listing is not owner-scoped.
func (s *ScheduleService) ListEntries(ctx context.Context) ([]persistence.ScheduleEntry, error) {
	entries, err := s.schedules.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// OnCallForDate returns the entries active on the given calendar date.
func (s *ScheduleService) OnCallForDate(ctx context.Context, date time.Time) ([]persistence.ScheduleEntry, error) {
	stored, err := s.schedules.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	candidates := make([]oncall.Entry, 0, len(stored))
	byID := make(map[string]persistence.ScheduleEntry, len(stored))
	for _, entry := range stored {
		byID[entry.ID] = entry
		candidates = append(candidates, oncall.Entry{
			ID:          entry.ID,
			OwnerID:     entry.OwnerID,
			PhoneNumber: entry.PhoneNumber,
			StartTime:   entry.StartTime,
			EndTime:     entry.EndTime,
			DayOfWeek:   entry.DayOfWeek,
			Recurring:   entry.Recurring,
			Always:      entry.Always,
			Date:        entry.Date,
		})
	}

	matched := oncall.EntriesForDate(date, candidates)
	s.metrics.ResolverEvaluated(len(matched))

	result := make([]persistence.ScheduleEntry, 0, len(matched))
	for _, entry := range matched {
		result = append(result, byID[entry.ID])
	}
	return result, nil
}

func (s *ScheduleService) ownedEntry(ctx context.Context, ownerID, entryID string) (persistence.ScheduleEntry, error) {
	entry, err := s.schedules.GetEntry(ctx, entryID)
	if errors.Is(err, persistence.ErrNotFound) {
		return persistence.ScheduleEntry{}, ErrNotFound
	}
	if err != nil {
		return persistence.ScheduleEntry{}, fmt.Errorf("get entry: %w", err)
	}
	if entry.OwnerID != ownerID {
		return persistence.ScheduleEntry{}, ErrForbidden
	}
	return entry, nil
}
