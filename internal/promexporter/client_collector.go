package promexporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pior/sentinel"
)

// ClientCollector exports the counters of sentinel.ClientStats.
// Stats are read at scrape time.
type ClientCollector struct {
	stats func() sentinel.ClientStats

	commands        *prometheus.Desc
	errors          *prometheus.Desc
	connects        *prometheus.Desc
	connectFailures *prometheus.Desc
	reconnects      *prometheus.Desc
}

var _ prometheus.Collector = (*ClientCollector)(nil)

// NewClientCollector creates a collector reading stats, usually
// Client.Stats.
func NewClientCollector(stats func() sentinel.ClientStats) *ClientCollector {
	return &ClientCollector{
		stats: stats,
		commands: prometheus.NewDesc(
			"sentinel_client_commands_total",
			"Total number of commands issued by the client",
			[]string{"command"}, nil,
		),
		errors: prometheus.NewDesc(
			"sentinel_client_errors_total",
			"Total number of client errors",
			[]string{"kind"}, nil, // all, server, protocol
		),
		connects: prometheus.NewDesc(
			"sentinel_client_connects_total",
			"Total number of successful dials",
			nil, nil,
		),
		connectFailures: prometheus.NewDesc(
			"sentinel_client_connect_failures_total",
			"Total number of failed dials",
			nil, nil,
		),
		reconnects: prometheus.NewDesc(
			"sentinel_client_reconnects_total",
			"Total number of connections dropped after the peer closed them",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *ClientCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commands
	ch <- c.errors
	ch <- c.connects
	ch <- c.connectFailures
	ch <- c.reconnects
}

// Collect implements prometheus.Collector
func (c *ClientCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()

	counter := func(desc *prometheus.Desc, value uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value), labels...)
	}

	counter(c.commands, s.Pings, "ping")
	counter(c.commands, s.Masters, "masters")
	counter(c.commands, s.Slaves, "slaves")
	counter(c.commands, s.MasterAddrLookups, "get-master-addr-by-name")
	counter(c.commands, s.MasterDownQueries, "is-master-down-by-addr")
	counter(c.commands, s.Resets, "reset")

	counter(c.errors, s.Errors, "all")
	counter(c.errors, s.ServerErrors, "server")
	counter(c.errors, s.ProtocolErrors, "protocol")

	counter(c.connects, s.Connects)
	counter(c.connectFailures, s.ConnectFailures)
	counter(c.reconnects, s.Reconnects)
}
