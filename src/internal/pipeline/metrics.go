// FILE: trackwisp/src/internal/pipeline/metrics.go
package pipeline

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline counters on a private registry so separate
// drivers (and tests) never collide on the default one
type Metrics struct {
	registry *prometheus.Registry

	Invocations       *prometheus.CounterVec
	Records           prometheus.Counter
	Updates           prometheus.Counter
	Discards          *prometheus.CounterVec
	PropertiesDropped prometheus.Counter
	AccuracyDropped   prometheus.Counter
	Batches           prometheus.Counter
	DispatchFailures  *prometheus.CounterVec
	RejectedUpdates   prometheus.Counter
	DispatchLatency   prometheus.Histogram
}

// NewMetrics registers all pipeline metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trackwisp_invocations_total",
			Help: "Invocations by outcome",
		}, []string{"result"}),
		Records: factory.NewCounter(prometheus.CounterOpts{
			Name: "trackwisp_records_total",
			Help: "Records received",
		}),
		Updates: factory.NewCounter(prometheus.CounterOpts{
			Name: "trackwisp_updates_total",
			Help: "Position updates built from records",
		}),
		Discards: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trackwisp_discards_total",
			Help: "Records that produced no update, by reason",
		}, []string{"reason"}),
		PropertiesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "trackwisp_position_properties_dropped_total",
			Help: "Updates sent without their position properties",
		}),
		AccuracyDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "trackwisp_accuracy_dropped_total",
			Help: "Updates sent without their non-numeric accuracy",
		}),
		Batches: factory.NewCounter(prometheus.CounterOpts{
			Name: "trackwisp_batches_total",
			Help: "Batches accepted by the tracker",
		}),
		DispatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trackwisp_dispatch_failures_total",
			Help: "Failed batch dispatches, by kind",
		}, []string{"kind"}),
		RejectedUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "trackwisp_rejected_updates_total",
			Help: "Updates reported as failed inside an accepted batch",
		}),
		DispatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trackwisp_dispatch_latency_seconds",
			Help:    "Latency of one tracker call",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveDispatchLatency records the duration of one tracker call
func (m *Metrics) ObserveDispatchLatency(start time.Time) {
	m.DispatchLatency.Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
