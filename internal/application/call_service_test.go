package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/twilio"
)

func newCallFixture(t *testing.T) (*CallService, *stubProvider) {
	t.Helper()

	provider := newStubProvider()
	config := &stubConfigRepo{values: map[string]string{
		ConfigKeyInboundNumber:  "+15550000001",
		ConfigKeyOutboundNumber: "+15550000002",
	}}
	return NewCallService(provider, config), provider
}

func TestListCallsByDirection(t *testing.T) {
	t.Parallel()

	svc, provider := newCallFixture(t)
	provider.calls["+15550000001|"] = []twilio.Call{{SID: "CA1", From: "+15559998888", To: "+15550000001"}}
	provider.calls["|+15550000002"] = []twilio.Call{{SID: "CA2", From: "+15550000002", To: "+15559998888"}}

	received, err := svc.List(context.Background(), DirectionReceived, "")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "CA1", received[0].SID)

	made, err := svc.List(context.Background(), DirectionMade, "")
	require.NoError(t, err)
	require.Len(t, made, 1)
	assert.Equal(t, "CA2", made[0].SID)

	all, err := svc.List(context.Background(), DirectionAll, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListCallsUnknownDirection(t *testing.T) {
	t.Parallel()

	svc, _ := newCallFixture(t)
	_, err := svc.List(context.Background(), "backwards", "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "direction")
}

func TestGetCallNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newCallFixture(t)
	_, err := svc.Get(context.Background(), "CAmissing")
	assert.ErrorIs(t, err, ErrNotFound)
}
