package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/oncall-dispatch/internal/persistence"
)

// StaffRepository captures the persistence interactions needed by the service.
type StaffRepository interface {
	CreateStaff(ctx context.Context, member persistence.StaffMember) error
	ListStaff(ctx context.Context) ([]persistence.StaffMember, error)
	SetStaffActive(ctx context.Context, phoneNumber string, active bool) error
	DeleteStaff(ctx context.Context, phoneNumber string) error
}

// StaffService manages the directory of alertable phone numbers.
type StaffService struct {
	staff       StaffRepository
	idGenerator func() string
	now         func() time.Time
}

// NewStaffService wires dependencies for staff directory operations.
func NewStaffService(staff StaffRepository, idGenerator func() string, now func() time.Time) *StaffService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &StaffService{staff: staff, idGenerator: idGenerator, now: now}
}

// CreateStaff adds a phone number to the directory. New members start active.
func (s *StaffService) CreateStaff(ctx context.Context, phoneNumber string) (persistence.StaffMember, error) {
	if phoneNumber == "" {
		vErr := &ValidationError{}
		vErr.add("phoneNumber", "phone number is required")
		return persistence.StaffMember{}, vErr
	}

	member := persistence.StaffMember{
		ID:          s.idGenerator(),
		PhoneNumber: phoneNumber,
		Active:      true,
		CreatedAt:   s.now(),
	}
	if err := s.staff.CreateStaff(ctx, member); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return persistence.StaffMember{}, ErrConflict
		}
		return persistence.StaffMember{}, fmt.Errorf("create staff: %w", err)
	}
	return member, nil
}

// ListStaff returns the full directory.
func (s *StaffService) ListStaff(ctx context.Context) ([]persistence.StaffMember, error) {
	members, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return members, nil
}

// SetStaffActive toggles whether a member receives alerts.
func (s *StaffService) SetStaffActive(ctx context.Context, phoneNumber string, active bool) error {
	if err := s.staff.SetStaffActive(ctx, phoneNumber, active); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set staff active: %w", err)
	}
	return nil
}

// DeleteStaff removes a member from the directory.
func (s *StaffService) DeleteStaff(ctx context.Context, phoneNumber string) error {
	if err := s.staff.DeleteStaff(ctx, phoneNumber); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete staff: %w", err)
	}
	return nil
}
