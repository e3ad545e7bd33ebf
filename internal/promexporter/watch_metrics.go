package promexporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	"github.com/pior/sentinel/internal/watch"
)

// WatchMetrics holds the Prometheus metrics of the watch loop.
// It implements watch.Metrics.
type WatchMetrics struct {
	up              prometheus.Gauge
	pollsTotal      *prometheus.CounterVec
	masters         prometheus.Gauge
	topologyChanges prometheus.Counter
	circuitState    prometheus.Gauge
}

var _ watch.Metrics = (*WatchMetrics)(nil)

// NewWatchMetrics creates and registers the watch metrics
func NewWatchMetrics(registry *prometheus.Registry) *WatchMetrics {
	m := &WatchMetrics{
		up: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinel_up",
				Help: "Whether the last poll of the Sentinel succeeded (1) or not (0)",
			},
		),
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentinel_poll_total",
				Help: "Total number of polls by outcome",
			},
			[]string{"status"}, // ok, down, error, skipped
		),
		masters: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinel_masters",
				Help: "Number of masters reported by the last successful poll",
			},
		),
		topologyChanges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sentinel_topology_changes_total",
				Help: "Total number of topology changes observed",
			},
		),
		circuitState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentinel_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
		),
	}

	// Pre-create the status series so they are exported at zero
	for _, status := range []string{watch.StatusOK, watch.StatusDown, watch.StatusError, watch.StatusSkipped} {
		m.pollsTotal.WithLabelValues(status)
	}

	registry.MustRegister(
		m.up,
		m.pollsTotal,
		m.masters,
		m.topologyChanges,
		m.circuitState,
	)

	return m
}

// SetUp records whether the last poll succeeded
func (m *WatchMetrics) SetUp(up bool) {
	if up {
		m.up.Set(1)
	} else {
		m.up.Set(0)
	}
}

// RecordPoll counts a poll by outcome
func (m *WatchMetrics) RecordPoll(status string) {
	m.pollsTotal.WithLabelValues(status).Inc()
}

// SetMasters sets the number of masters
func (m *WatchMetrics) SetMasters(count int) {
	m.masters.Set(float64(count))
}

// RecordTopologyChange counts a topology change
func (m *WatchMetrics) RecordTopologyChange() {
	m.topologyChanges.Inc()
}

// SetBreakerState sets the current state (0, 1, or 2)
func (m *WatchMetrics) SetBreakerState(state gobreaker.State) {
	m.circuitState.Set(float64(state))
}
