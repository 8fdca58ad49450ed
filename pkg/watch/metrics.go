package watch

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains Prometheus metrics for the watch daemon.
type Metrics struct {
	registry *prometheus.Registry

	// Parse outcomes, labelled by result (ok/error).
	parses *prometheus.CounterVec

	// Parse latency.
	parseDuration prometheus.Histogram

	// Entity counts from the most recent successful parse, labelled
	// by kind (tools/nodes/targets/tasks).
	entities *prometheus.GaugeVec

	// Completed sweeps (debounced file events and scheduled runs).
	sweeps prometheus.Counter
}

// NewMetrics creates the watch daemon metrics on their own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		parses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anvil_watch_parses_total",
				Help: "Total number of build file parses performed by the watch daemon",
			},
			[]string{"result"},
		),

		parseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "anvil_watch_parse_duration_seconds",
				Help:    "Build file parse latency",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),

		entities: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "anvil_watch_graph_entities",
				Help: "Entity counts from the most recent successful parse",
			},
			[]string{"kind"},
		),

		sweeps: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "anvil_watch_sweeps_total",
				Help: "Total number of completed lint sweeps",
			},
		),
	}
}

// ObserveParse records one parse outcome.
func (m *Metrics) ObserveParse(ok bool, duration time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.parses.WithLabelValues(result).Inc()
	m.parseDuration.Observe(duration.Seconds())
}

// SetEntityCounts records the graph size of the latest successful
// parse.
func (m *Metrics) SetEntityCounts(tools, nodes, targets, tasks int) {
	m.entities.WithLabelValues("tools").Set(float64(tools))
	m.entities.WithLabelValues("nodes").Set(float64(nodes))
	m.entities.WithLabelValues("targets").Set(float64(targets))
	m.entities.WithLabelValues("tasks").Set(float64(tasks))
}

// ObserveSweep records one completed sweep.
func (m *Metrics) ObserveSweep() {
	m.sweeps.Inc()
}

// Handler returns an HTTP handler serving the metrics in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
