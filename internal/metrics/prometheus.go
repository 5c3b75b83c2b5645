package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
type PrometheusSink struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   prometheus.Histogram
	resolverRuns      prometheus.Counter
	resolverMatches   prometheus.Histogram
	providerRequests  *prometheus.CounterVec
	providerDuration  prometheus.Histogram
	notificationsSent *prometheus.CounterVec
	orphansDeleted    prometheus.Counter
}

// NewPrometheusSink creates a Prometheus metrics sink registered against reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oncall_http_requests_total",
			Help: "Handled HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oncall_http_request_duration_seconds",
			Help:    "HTTP request handling duration.",
			Buckets: prometheus.DefBuckets,
		}),
		resolverRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oncall_resolver_evaluations_total",
			Help: "On-call resolver evaluations.",
		}),
		resolverMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oncall_resolver_matched_entries",
			Help:    "Entries matched per resolver evaluation.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oncall_provider_requests_total",
			Help: "Requests to the messaging/voice provider by kind and status class.",
		}, []string{"kind", "status_class"}),
		providerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oncall_provider_request_duration_seconds",
			Help:    "Provider request duration.",
			Buckets: prometheus.DefBuckets,
		}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oncall_notifications_total",
			Help: "Outbound alert SMS outcomes.",
		}, []string{"outcome"}),
		orphansDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oncall_orphaned_entries_deleted_total",
			Help: "Schedule entries deleted by the reconciliation pass.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			s.requestsTotal,
			s.requestDuration,
			s.resolverRuns,
			s.resolverMatches,
			s.providerRequests,
			s.providerDuration,
			s.notificationsSent,
			s.orphansDeleted,
		)
	}
	return s
}

func (s *PrometheusSink) RequestCompleted(method, route string, status int, duration time.Duration) {
	s.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.requestDuration.Observe(duration.Seconds())
}

func (s *PrometheusSink) ResolverEvaluated(matched int) {
	s.resolverRuns.Inc()
	s.resolverMatches.Observe(float64(matched))
}

func (s *PrometheusSink) ProviderRequest(kind, statusClass string, duration time.Duration) {
	s.providerRequests.WithLabelValues(kind, statusClass).Inc()
	s.providerDuration.Observe(duration.Seconds())
}

func (s *PrometheusSink) NotificationSent(outcome string) {
	s.notificationsSent.WithLabelValues(outcome).Inc()
}

func (s *PrometheusSink) OrphanedEntriesDeleted(count int64) {
	s.orphansDeleted.Add(float64(count))
}

var _ Sink = (*PrometheusSink)(nil)
var _ Sink = (*NoopSink)(nil)
