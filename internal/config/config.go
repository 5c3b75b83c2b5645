package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration for the dispatch service.
// Business logic never reads the process environment directly; everything
// flows through this struct at startup.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	CookieSecret      string
	SSOBaseURL        string
	SSOAppID          string
	TwilioBaseURL     string
	TwilioAccountSID  string
	TwilioKeySID      string
	TwilioKeySecret   string
	CacheTTL          time.Duration
	CacheSize         int
	ReconcileSchedule string
	SMSRatePerSecond  float64
	SMSBurst          int
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; missing required values and
// malformed optional values are aggregated into a single error so operators
// see every problem at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "file:oncall.db?_foreign_keys=on",
		TwilioBaseURL:     "https://api.twilio.com",
		CacheTTL:          5 * time.Minute,
		CacheSize:         128,
		ReconcileSchedule: "@every 10m",
		SMSRatePerSecond:  1,
		SMSBurst:          5,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ONCALL_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ONCALL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ONCALL_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	for _, entry := range []struct {
		name   string
		target *string
	}{
		{"COOKIE_SECRET", &cfg.CookieSecret},
		{"SSO_URL", &cfg.SSOBaseURL},
		{"SSO_APP_ID", &cfg.SSOAppID},
		{"TWILIO_ACCOUNT_SID", &cfg.TwilioAccountSID},
		{"TWILIO_API_TOKEN", &cfg.TwilioKeySID},
		{"TWILIO_API_SECRET", &cfg.TwilioKeySecret},
	} {
		value := strings.TrimSpace(os.Getenv(entry.name))
		if value == "" {
			missing = append(missing, entry.name)
			continue
		}
		*entry.target = value
	}

	if base := strings.TrimSpace(os.Getenv("TWILIO_BASE_URL")); base != "" {
		cfg.TwilioBaseURL = strings.TrimSuffix(base, "/")
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ONCALL_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ONCALL_CACHE_TTL")
		} else {
			cfg.CacheTTL = ttl
		}
	}

	if sizeValue := strings.TrimSpace(os.Getenv("ONCALL_CACHE_SIZE")); sizeValue != "" {
		size, err := strconv.Atoi(sizeValue)
		if err != nil || size <= 0 {
			invalid = append(invalid, "ONCALL_CACHE_SIZE")
		} else {
			cfg.CacheSize = size
		}
	}

	if schedule := strings.TrimSpace(os.Getenv("ONCALL_RECONCILE_SCHEDULE")); schedule != "" {
		cfg.ReconcileSchedule = schedule
	}

	if rateValue := strings.TrimSpace(os.Getenv("ONCALL_SMS_RATE")); rateValue != "" {
		perSecond, err := strconv.ParseFloat(rateValue, 64)
		if err != nil || perSecond <= 0 {
			invalid = append(invalid, "ONCALL_SMS_RATE")
		} else {
			cfg.SMSRatePerSecond = perSecond
		}
	}

	if burstValue := strings.TrimSpace(os.Getenv("ONCALL_SMS_BURST")); burstValue != "" {
		burst, err := strconv.Atoi(burstValue)
		if err != nil || burst <= 0 {
			invalid = append(invalid, "ONCALL_SMS_BURST")
		} else {
			cfg.SMSBurst = burst
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
