package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/persistence"
)

type stubStaffRepo struct {
	members map[string]persistence.StaffMember
}

func newStubStaffRepo() *stubStaffRepo {
	return &stubStaffRepo{members: make(map[string]persistence.StaffMember)}
}

func (r *stubStaffRepo) CreateStaff(_ context.Context, member persistence.StaffMember) error {
	if _, ok := r.members[member.PhoneNumber]; ok {
		return persistence.ErrDuplicate
	}
	r.members[member.PhoneNumber] = member
	return nil
}

func (r *stubStaffRepo) ListStaff(_ context.Context) ([]persistence.StaffMember, error) {
	members := make([]persistence.StaffMember, 0, len(r.members))
	for _, member := range r.members {
		members = append(members, member)
	}
	return members, nil
}

func (r *stubStaffRepo) SetStaffActive(_ context.Context, phoneNumber string, active bool) error {
	member, ok := r.members[phoneNumber]
	if !ok {
		return persistence.ErrNotFound
	}
	member.Active = active
	r.members[phoneNumber] = member
	return nil
}

func (r *stubStaffRepo) DeleteStaff(_ context.Context, phoneNumber string) error {
	if _, ok := r.members[phoneNumber]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.members, phoneNumber)
	return nil
}

func TestCreateStaffDuplicateConflicts(t *testing.T) {
	t.Parallel()

	svc := NewStaffService(newStubStaffRepo(), sequentialIDs(), fixedClock(time.Unix(0, 0)))

	member, err := svc.CreateStaff(context.Background(), "+15551230000")
	require.NoError(t, err)
	assert.True(t, member.Active)
	assert.NotEmpty(t, member.ID)

	_, err = svc.CreateStaff(context.Background(), "+15551230000")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateStaffRequiresNumber(t *testing.T) {
	t.Parallel()

	svc := NewStaffService(newStubStaffRepo(), nil, nil)
	_, err := svc.CreateStaff(context.Background(), "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "phoneNumber")
}

func TestSetStaffActiveUnknownNumber(t *testing.T) {
	t.Parallel()

	svc := NewStaffService(newStubStaffRepo(), nil, nil)
	err := svc.SetStaffActive(context.Background(), "+19990000000", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStaff(t *testing.T) {
	t.Parallel()

	repo := newStubStaffRepo()
	svc := NewStaffService(repo, sequentialIDs(), nil)

	_, err := svc.CreateStaff(context.Background(), "+15551230000")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStaff(context.Background(), "+15551230000"))
	assert.ErrorIs(t, svc.DeleteStaff(context.Background(), "+15551230000"), ErrNotFound)
}
