// Package metrics exposes Prometheus instrumentation for the dataset
// pipeline and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	SnapshotBuilds  *prometheus.CounterVec
	BuildDuration   prometheus.Histogram
	SnapshotRecords prometheus.Gauge
	ImputedValues   *prometheus.CounterVec
	ExportsTotal    *prometheus.CounterVec
	QueriesTotal    prometheus.Counter
}

// New registers and returns the application metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SnapshotBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classroom",
			Subsystem: "dataset",
			Name:      "snapshot_builds_total",
			Help:      "Snapshot build attempts by outcome.",
		}, []string{"outcome"}),

		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "classroom",
			Subsystem: "dataset",
			Name:      "build_duration_seconds",
			Help:      "Time spent building a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),

		SnapshotRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "classroom",
			Subsystem: "dataset",
			Name:      "snapshot_records",
			Help:      "Records in the currently published snapshot.",
		}),

		ImputedValues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classroom",
			Subsystem: "dataset",
			Name:      "imputed_values_total",
			Help:      "Null values filled during cleaning, by column.",
		}, []string{"column"}),

		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classroom",
			Subsystem: "api",
			Name:      "exports_total",
			Help:      "Dataset exports by format.",
		}, []string{"format"}),

		QueriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "classroom",
			Subsystem: "api",
			Name:      "queries_total",
			Help:      "Paginated student queries served.",
		}),
	}
}

// NewDefault registers the metrics on the default Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
