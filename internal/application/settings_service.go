package application

import (
	"context"
	"fmt"

	"github.com/example/oncall-dispatch/internal/twilio"
)

// Runtime configuration keys the dashboard understands.
const (
	ConfigKeyInboundNumber  = "inbound_number"
	ConfigKeyOutboundNumber = "outbound_number"
)

var configKeys = []string{ConfigKeyInboundNumber, ConfigKeyOutboundNumber}

// ConfigRepository captures the persistence interactions needed by the service.
type ConfigRepository interface {
	GetConfigValues(ctx context.Context, keys []string) (map[string]string, error)
	SetConfigValue(ctx context.Context, key, value string) error
}

// NumberCatalog lists the provider's provisioned numbers and can drop its
// cached copy when the dashboard configuration changes.
type NumberCatalog interface {
	ListIncomingPhoneNumbers(ctx context.Context) ([]twilio.IncomingPhoneNumber, error)
	InvalidatePhoneNumbers()
}

// SettingsService manages the dashboard's runtime configuration: which
// provider numbers it treats as its inbound and outbound lines.
type SettingsService struct {
	config  ConfigRepository
	numbers NumberCatalog
}

// NewSettingsService wires dependencies for configuration operations.
func NewSettingsService(config ConfigRepository, numbers NumberCatalog) *SettingsService {
	return &SettingsService{config: config, numbers: numbers}
}

// Values returns the configured values for all known keys. Unset keys are
// absent from the map.
func (s *SettingsService) Values(ctx context.Context) (map[string]string, error) {
	values, err := s.config.GetConfigValues(ctx, configKeys)
	if err != nil {
		return nil, fmt.Errorf("get config values: %w", err)
	}
	return values, nil
}

// SetValue stores a configuration value and invalidates the cached number
// list so the settings page reflects the change immediately.
func (s *SettingsService) SetValue(ctx context.Context, key, value string) error {
	if !isConfigKey(key) {
		vErr := &ValidationError{}
		vErr.add("key", "unknown configuration key")
		return vErr
	}
	if value == "" {
		vErr := &ValidationError{}
		vErr.add("value", "value is required")
		return vErr
	}

	if err := s.config.SetConfigValue(ctx, key, value); err != nil {
		return fmt.Errorf("set config value: %w", err)
	}
	if s.numbers != nil {
		s.numbers.InvalidatePhoneNumbers()
	}
	return nil
}

// NumberOptions returns the provider numbers available for configuration.
func (s *SettingsService) NumberOptions(ctx context.Context) ([]twilio.IncomingPhoneNumber, error) {
	options, err := s.numbers.ListIncomingPhoneNumbers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list provider numbers: %w", err)
	}
	return options, nil
}

func isConfigKey(key string) bool {
	for _, known := range configKeys {
		if key == known {
			return true
		}
	}
	return false
}
