package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("COOKIE_SECRET", "secret")
	t.Setenv("SSO_URL", "https://sso.example.com")
	t.Setenv("SSO_APP_ID", "dashboard")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_API_TOKEN", "SK123")
	t.Setenv("TWILIO_API_SECRET", "shh")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "file:oncall.db?_foreign_keys=on", cfg.SQLiteDSN)
	assert.Equal(t, "https://api.twilio.com", cfg.TwilioBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, "@every 10m", cfg.ReconcileSchedule)
	assert.Equal(t, float64(1), cfg.SMSRatePerSecond)
	assert.Equal(t, 5, cfg.SMSBurst)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ONCALL_HTTP_PORT", "9090")
	t.Setenv("ONCALL_SQLITE_DSN", "file:test.db")
	t.Setenv("TWILIO_BASE_URL", "http://localhost:8090/")
	t.Setenv("ONCALL_CACHE_TTL", "30s")
	t.Setenv("ONCALL_CACHE_SIZE", "16")
	t.Setenv("ONCALL_RECONCILE_SCHEDULE", "@hourly")
	t.Setenv("ONCALL_SMS_RATE", "0.5")
	t.Setenv("ONCALL_SMS_BURST", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "file:test.db", cfg.SQLiteDSN)
	assert.Equal(t, "http://localhost:8090", cfg.TwilioBaseURL, "trailing slash is trimmed")
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, "@hourly", cfg.ReconcileSchedule)
	assert.Equal(t, 0.5, cfg.SMSRatePerSecond)
	assert.Equal(t, 2, cfg.SMSBurst)
}

func TestLoadReportsAllMissing(t *testing.T) {
	t.Setenv("COOKIE_SECRET", "")
	t.Setenv("SSO_URL", "")
	t.Setenv("SSO_APP_ID", "x")
	t.Setenv("TWILIO_ACCOUNT_SID", "x")
	t.Setenv("TWILIO_API_TOKEN", "x")
	t.Setenv("TWILIO_API_SECRET", "x")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COOKIE_SECRET")
	assert.Contains(t, err.Error(), "SSO_URL")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("ONCALL_HTTP_PORT", "not-a-port")
	t.Setenv("ONCALL_CACHE_TTL", "-5s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ONCALL_HTTP_PORT")
	assert.Contains(t, err.Error(), "ONCALL_CACHE_TTL")
}
