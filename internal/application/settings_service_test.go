package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oncall-dispatch/internal/twilio"
)

type stubNumberCatalog struct {
	numbers      []twilio.IncomingPhoneNumber
	invalidated  int
	listRequests int
}

func (c *stubNumberCatalog) ListIncomingPhoneNumbers(_ context.Context) ([]twilio.IncomingPhoneNumber, error) {
	c.listRequests++
	return c.numbers, nil
}

func (c *stubNumberCatalog) InvalidatePhoneNumbers() {
	c.invalidated++
}

func TestSetValueRejectsUnknownKey(t *testing.T) {
	t.Parallel()

	svc := NewSettingsService(&stubConfigRepo{}, &stubNumberCatalog{})
	err := svc.SetValue(context.Background(), "theme", "dark")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "key")
}

func TestSetValueRequiresValue(t *testing.T) {
	t.Parallel()

	svc := NewSettingsService(&stubConfigRepo{}, &stubNumberCatalog{})
	err := svc.SetValue(context.Background(), ConfigKeyInboundNumber, "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.FieldErrors, "value")
}

func TestSetValueInvalidatesNumberCache(t *testing.T) {
	t.Parallel()

	config := &stubConfigRepo{}
	catalog := &stubNumberCatalog{}
	svc := NewSettingsService(config, catalog)

	require.NoError(t, svc.SetValue(context.Background(), ConfigKeyOutboundNumber, "+15550000002"))
	assert.Equal(t, 1, catalog.invalidated)

	values, err := svc.Values(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "+15550000002", values[ConfigKeyOutboundNumber])
	assert.NotContains(t, values, ConfigKeyInboundNumber)
}

func TestNumberOptions(t *testing.T) {
	t.Parallel()

	catalog := &stubNumberCatalog{numbers: []twilio.IncomingPhoneNumber{
		{PhoneNumber: "+15550000001", FriendlyName: "dispatch"},
	}}
	svc := NewSettingsService(&stubConfigRepo{}, catalog)

	options, err := svc.NumberOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "dispatch", options[0].FriendlyName)
}
