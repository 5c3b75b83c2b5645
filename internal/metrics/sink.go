// Package metrics defines the recording interface used across the service.
package metrics

import "time"

// Sink records operational metrics. All methods are fire-and-forget:
// implementations must not block or propagate errors.
type Sink interface {
	// RequestCompleted records one handled HTTP request.
	RequestCompleted(method, route string, status int, duration time.Duration)

	// ResolverEvaluated records one on-call resolution and how many
	// entries matched.
	ResolverEvaluated(matched int)

	// ProviderRequest records one call to the messaging/voice provider.
	ProviderRequest(kind string, statusClass string, duration time.Duration)

	// NotificationSent records the outcome of one outbound alert SMS.
	NotificationSent(outcome string)

	// OrphanedEntriesDeleted records a reconciliation pass result.
	OrphanedEntriesDeleted(count int64)
}

// Outcome constants for NotificationSent.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// ClassifyStatus maps an HTTP status code and transport error to a coarse
// class used as a metric label.
func ClassifyStatus(statusCode int, err error) string {
	if err != nil {
		return "transport_error"
	}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
