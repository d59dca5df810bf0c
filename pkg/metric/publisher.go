package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Publisher = (*publisherMetrics)(nil)

type publisherMetrics struct {
	published  *prometheus.CounterVec
	failed     *prometheus.CounterVec
	duplicates *prometheus.CounterVec
}

func newPublisherMetrics(registry *promRegistry) *publisherMetrics {
	published := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Total number of payment notifications published",
		},
		[]string{"topic"},
	)

	failed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_publish_failed_total",
			Help: "Total number of payment notifications that could not be published",
		},
		[]string{"topic", "reason"},
	)

	duplicates := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_duplicates_total",
			Help: "Total number of repeated payment notifications acknowledged without publishing",
		},
		[]string{"source"},
	)

	registry.registry.MustRegister(published, failed, duplicates)

	return &publisherMetrics{
		published:  published,
		failed:     failed,
		duplicates: duplicates,
	}
}

func (m *publisherMetrics) Published(topic string) {
	m.published.WithLabelValues(topic).Add(1)
}

func (m *publisherMetrics) Failed(topic string, reason string) {
	m.failed.WithLabelValues(topic, reason).Add(1)
}

func (m *publisherMetrics) Duplicate(source string) {
	m.duplicates.WithLabelValues(source).Add(1)
}
