package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// GetProfile returns the on-call profile for an owner.
func (s *Store) GetProfile(ctx context.Context, ownerID string) (persistence.ScheduleProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT owner_id, phone_number, created_at, updated_at FROM schedule_profiles WHERE owner_id = ?`,
		ownerID,
	)

	var profile persistence.ScheduleProfile
	var createdAt, updatedAt string
	if err := row.Scan(&profile.OwnerID, &profile.PhoneNumber, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ScheduleProfile{}, persistence.ErrNotFound
		}
		return persistence.ScheduleProfile{}, fmt.Errorf("sqlite: get profile: %w", err)
	}
	profile.CreatedAt = parseTime(createdAt)
	profile.UpdatedAt = parseTime(updatedAt)
	return profile, nil
}

// UpsertProfile inserts or replaces the owner's profile. The original
// created_at is preserved on conflict; updated_at is always refreshed.
func (s *Store) UpsertProfile(ctx context.Context, profile persistence.ScheduleProfile) (persistence.ScheduleProfile, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedule_profiles (owner_id, phone_number, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			phone_number = excluded.phone_number,
			updated_at = excluded.updated_at`,
		profile.OwnerID,
		profile.PhoneNumber,
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	if err != nil {
		return persistence.ScheduleProfile{}, fmt.Errorf("sqlite: upsert profile: %w", err)
	}
	return s.GetProfile(ctx, profile.OwnerID)
}

// DeleteOwnerSchedules removes the owner's entries and profile in a single
// transaction so an interrupted unlink cannot strand either side. Unlinking
// an absent profile is not an error.
func (s *Store) DeleteOwnerSchedules(ctx context.Context, ownerID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries WHERE owner_id = ?`, ownerID); err != nil {
			return fmt.Errorf("sqlite: delete owner entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_profiles WHERE owner_id = ?`, ownerID); err != nil {
			return fmt.Errorf("sqlite: delete owner profile: %w", err)
		}
		return nil
	})
}

const entryColumns = `id, owner_id, phone_number, start_time, end_time, day_of_week, recurring, always_on, entry_date, created_at`

// CreateEntry inserts a schedule entry.
func (s *Store) CreateEntry(ctx context.Context, entry persistence.ScheduleEntry) error {
	var dayOfWeek sql.NullInt64
	if entry.DayOfWeek != nil {
		dayOfWeek = sql.NullInt64{Int64: int64(*entry.DayOfWeek), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule_entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OwnerID,
		entry.PhoneNumber,
		entry.StartTime,
		entry.EndTime,
		dayOfWeek,
		boolToInt(entry.Recurring),
		boolToInt(entry.Always),
		entry.Date,
		formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create entry: %w", err)
	}
	return nil
}

// GetEntry returns a schedule entry by identifier.
func (s *Store) GetEntry(ctx context.Context, id string) (persistence.ScheduleEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM schedule_entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ScheduleEntry{}, persistence.ErrNotFound
		}
		return persistence.ScheduleEntry{}, fmt.Errorf("sqlite: get entry: %w", err)
	}
	return entry, nil
}

// UpdateEntry replaces the mutable fields of an entry.
func (s *Store) UpdateEntry(ctx context.Context, entry persistence.ScheduleEntry) error {
	var dayOfWeek sql.NullInt64
	if entry.DayOfWeek != nil {
		dayOfWeek = sql.NullInt64{Int64: int64(*entry.DayOfWeek), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE schedule_entries
		SET start_time = ?, end_time = ?, day_of_week = ?, recurring = ?, always_on = ?, entry_date = ?
		WHERE id = ?`,
		entry.StartTime,
		entry.EndTime,
		dayOfWeek,
		boolToInt(entry.Recurring),
		boolToInt(entry.Always),
		entry.Date,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update entry: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteEntry removes an entry by identifier.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete entry: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListEntries returns every schedule entry ordered by creation time.
func (s *Store) ListEntries(ctx context.Context) ([]persistence.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM schedule_entries ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list entries: %w", err)
	}
	defer rows.Close()

	var entries []persistence.ScheduleEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list entries: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list entries: %w", err)
	}
	return entries, nil
}

// FindAlwaysEntry returns the owner's always-on-call entry when one exists.
func (s *Store) FindAlwaysEntry(ctx context.Context, ownerID string) (persistence.ScheduleEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM schedule_entries WHERE owner_id = ? AND always_on = 1 LIMIT 1`,
		ownerID,
	)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ScheduleEntry{}, persistence.ErrNotFound
		}
		return persistence.ScheduleEntry{}, fmt.Errorf("sqlite: find always entry: %w", err)
	}
	return entry, nil
}

// DeleteOrphanedEntries removes entries whose owner no longer has a profile.
// The unlink cascade is transactional, but entries written by an older
// version or a partially failed import are still cleaned up here.
func (s *Store) DeleteOrphanedEntries(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM schedule_entries
		WHERE owner_id NOT IN (SELECT owner_id FROM schedule_profiles)`)
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete orphaned entries: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: delete orphaned entries: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (persistence.ScheduleEntry, error) {
	var entry persistence.ScheduleEntry
	var dayOfWeek sql.NullInt64
	var recurring, always int
	var createdAt string

	err := row.Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.PhoneNumber,
		&entry.StartTime,
		&entry.EndTime,
		&dayOfWeek,
		&recurring,
		&always,
		&entry.Date,
		&createdAt,
	)
	if err != nil {
		return persistence.ScheduleEntry{}, err
	}

	if dayOfWeek.Valid {
		day := int(dayOfWeek.Int64)
		entry.DayOfWeek = &day
	}
	entry.Recurring = recurring != 0
	entry.Always = always != 0
	entry.CreatedAt = parseTime(createdAt)
	return entry, nil
}
