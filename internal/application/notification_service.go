package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/example/oncall-dispatch/internal/metrics"
	"github.com/example/oncall-dispatch/internal/persistence"
	"github.com/example/oncall-dispatch/internal/twilio"
)

// AlertSender captures the provider interaction needed to send alert SMS.
type AlertSender interface {
	SendMessage(ctx context.Context, to, from, body string) (twilio.Message, error)
}

// AlertResult summarises one alert fan-out.
type AlertResult struct {
	Recipients []string
	Sent       int
	Failed     int
}

// OnCallResolver captures the schedule interaction needed to find who is on
// call right now.
type OnCallResolver interface {
	OnCallForDate(ctx context.Context, date time.Time) ([]persistence.ScheduleEntry, error)
}

// NotificationService fans an alert SMS out to everyone on call today. Sends
// are rate limited so a burst of alerts cannot flood the provider.
type NotificationService struct {
	resolver OnCallResolver
	sender   AlertSender
	config   ConfigRepository
	limiter  *rate.Limiter
	metrics  metrics.Sink
	logger   *slog.Logger
	now      func() time.Time
}

// NewNotificationService wires dependencies for alert fan-out.
func NewNotificationService(resolver OnCallResolver, sender AlertSender, config ConfigRepository, limiter *rate.Limiter, sink metrics.Sink, logger *slog.Logger, now func() time.Time) *NotificationService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(1), 1)
	}
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationService{
		resolver: resolver,
		sender:   sender,
		config:   config,
		limiter:  limiter,
		metrics:  sink,
		logger:   logger,
		now:      now,
	}
}

// Alert sends body to every distinct phone number on call today. Individual
// send failures are logged and counted but do not abort the fan-out.
func (s *NotificationService) Alert(ctx context.Context, body string) (AlertResult, error) {
	if body == "" {
		vErr := &ValidationError{}
		vErr.add("body", "body is required")
		return AlertResult{}, vErr
	}

	values, err := s.config.GetConfigValues(ctx, configKeys)
	if err != nil {
		return AlertResult{}, fmt.Errorf("get config values: %w", err)
	}
	outbound := values[ConfigKeyOutboundNumber]
	if outbound == "" {
		return AlertResult{}, configMissing(ConfigKeyOutboundNumber)
	}

	entries, err := s.resolver.OnCallForDate(ctx, s.now())
	if err != nil {
		return AlertResult{}, fmt.Errorf("resolve on-call: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	recipients := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.PhoneNumber == "" || seen[entry.PhoneNumber] {
			continue
		}
		seen[entry.PhoneNumber] = true
		recipients = append(recipients, entry.PhoneNumber)
	}

	if len(recipients) == 0 {
		s.metrics.NotificationSent(metrics.OutcomeSkipped)
		s.logger.WarnContext(ctx, "alert skipped, nobody on call")
		return AlertResult{}, nil
	}

	result := AlertResult{Recipients: recipients}
	for _, to := range recipients {
		if err := s.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("rate limit wait: %w", err)
		}
		if _, err := s.sender.SendMessage(ctx, to, outbound, body); err != nil {
			result.Failed++
			s.metrics.NotificationSent(metrics.OutcomeFailed)
			s.logger.ErrorContext(ctx, "alert send failed", slog.String("to", to), slog.String("error", err.Error()))
			continue
		}
		result.Sent++
		s.metrics.NotificationSent(metrics.OutcomeSent)
	}
	return result, nil
}
