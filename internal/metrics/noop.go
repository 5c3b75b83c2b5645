package metrics

import "time"

// NoopSink is a no-op implementation of Sink, used in tests and when metrics
// are disabled to avoid nil checks at call sites.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) RequestCompleted(method, route string, status int, duration time.Duration) {}
func (n *NoopSink) ResolverEvaluated(matched int)                                             {}
func (n *NoopSink) ProviderRequest(kind, statusClass string, duration time.Duration)          {}
func (n *NoopSink) NotificationSent(outcome string)                                           {}
func (n *NoopSink) OrphanedEntriesDeleted(count int64)                                        {}
