package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// CreateStaff inserts a staff directory member. A duplicate phone number is
// reported as persistence.ErrDuplicate.
func (s *Store) CreateStaff(ctx context.Context, member persistence.StaffMember) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO staff (id, phone_number, active, created_at) VALUES (?, ?, ?, ?)`,
		member.ID,
		member.PhoneNumber,
		boolToInt(member.Active),
		formatTime(member.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return persistence.ErrDuplicate
		}
		return fmt.Errorf("sqlite: create staff: %w", err)
	}
	return nil
}

// GetStaffByPhoneNumber looks up a staff member by phone number.
func (s *Store) GetStaffByPhoneNumber(ctx context.Context, phoneNumber string) (persistence.StaffMember, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, phone_number, active, created_at FROM staff WHERE phone_number = ?`,
		phoneNumber,
	)

	var member persistence.StaffMember
	var active int
	var createdAt string
	if err := row.Scan(&member.ID, &member.PhoneNumber, &active, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.StaffMember{}, persistence.ErrNotFound
		}
		return persistence.StaffMember{}, fmt.Errorf("sqlite: get staff: %w", err)
	}
	member.Active = active != 0
	member.CreatedAt = parseTime(createdAt)
	return member, nil
}

// ListStaff returns the whole staff directory ordered by creation time.
func (s *Store) ListStaff(ctx context.Context) ([]persistence.StaffMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, phone_number, active, created_at FROM staff ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list staff: %w", err)
	}
	defer rows.Close()

	var members []persistence.StaffMember
	for rows.Next() {
		var member persistence.StaffMember
		var active int
		var createdAt string
		if err := rows.Scan(&member.ID, &member.PhoneNumber, &active, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: list staff: %w", err)
		}
		member.Active = active != 0
		member.CreatedAt = parseTime(createdAt)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list staff: %w", err)
	}
	return members, nil
}

// SetStaffActive toggles the active flag for a phone number.
func (s *Store) SetStaffActive(ctx context.Context, phoneNumber string, active bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE staff SET active = ? WHERE phone_number = ?`,
		boolToInt(active), phoneNumber)
	if err != nil {
		return fmt.Errorf("sqlite: set staff active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: set staff active: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteStaff removes a phone number from the directory.
func (s *Store) DeleteStaff(ctx context.Context, phoneNumber string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM staff WHERE phone_number = ?`, phoneNumber)
	if err != nil {
		return fmt.Errorf("sqlite: delete staff: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete staff: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
