package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Gateway = (*gatewayMetrics)(nil)

type gatewayMetrics struct {
	calls           *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	transportErrors *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
}

func newGatewayMetrics(registry *promRegistry) *gatewayMetrics {
	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Total number of gateway calls by profile and status class",
		},
		[]string{"profile", "status"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Gateway round trip duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"profile", "status"},
	)

	transportErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_transport_errors_total",
			Help: "Total number of gateway calls that got no HTTP response",
		},
		[]string{"profile", "reason"},
	)

	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_outcomes_total",
			Help: "Total number of normalized checkout outcomes by kind",
		},
		[]string{"profile", "kind"},
	)

	registry.registry.MustRegister(calls, duration, transportErrors, outcomes)

	return &gatewayMetrics{
		calls:           calls,
		duration:        duration,
		transportErrors: transportErrors,
		outcomes:        outcomes,
	}
}

func (m *gatewayMetrics) Call(profile string, status int, duration time.Duration) {
	class := statusClass(status)
	m.calls.WithLabelValues(profile, class).Add(1)
	m.duration.WithLabelValues(profile, class).Observe(duration.Seconds())
}

func (m *gatewayMetrics) TransportError(profile string, reason string) {
	m.transportErrors.WithLabelValues(profile, reason).Add(1)
}

func (m *gatewayMetrics) Outcome(profile string, kind string) {
	m.outcomes.WithLabelValues(profile, kind).Add(1)
}
