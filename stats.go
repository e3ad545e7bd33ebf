package sentinel

import (
	"sync/atomic"
)

// ClientStats contains statistics about client operations.
// All fields are safe for concurrent access.
//
// For Prometheus integration, expose these as counters. Commands is the sum
// of the per-command counters.
type ClientStats struct {
	Pings             uint64 // Total Ping calls
	Masters           uint64 // Total Masters calls
	Slaves            uint64 // Total Slaves calls
	MasterAddrLookups uint64 // Total GetMasterAddrByName calls
	MasterDownQueries uint64 // Total IsMasterDownByAddr calls
	Resets            uint64 // Total Reset calls

	Errors         uint64 // Total errors across all operations
	ServerErrors   uint64 // Error replies sent by the Sentinel
	ProtocolErrors uint64 // Malformed or unexpected replies

	Connects        uint64 // Successful dials
	ConnectFailures uint64 // Failed dials
	Reconnects      uint64 // Stale connections dropped before a command
}

// Commands returns the total number of commands issued.
func (s ClientStats) Commands() uint64 {
	return s.Pings + s.Masters + s.Slaves + s.MasterAddrLookups + s.MasterDownQueries + s.Resets
}

// clientStatsCollector provides internal methods for updating client stats.
// Not exported - client updates its own stats.
type clientStatsCollector struct {
	stats *ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{
		stats: &ClientStats{},
	}
}

// recordCommand increments one of the per-command counters of c.stats.
func (c *clientStatsCollector) recordCommand(counter *uint64) {
	atomic.AddUint64(counter, 1)
}

func (c *clientStatsCollector) recordError() {
	atomic.AddUint64(&c.stats.Errors, 1)
}

func (c *clientStatsCollector) recordServerError() {
	atomic.AddUint64(&c.stats.ServerErrors, 1)
}

func (c *clientStatsCollector) recordProtocolError() {
	atomic.AddUint64(&c.stats.ProtocolErrors, 1)
}

func (c *clientStatsCollector) recordConnect() {
	atomic.AddUint64(&c.stats.Connects, 1)
}

func (c *clientStatsCollector) recordConnectFailure() {
	atomic.AddUint64(&c.stats.ConnectFailures, 1)
}

func (c *clientStatsCollector) recordReconnect() {
	atomic.AddUint64(&c.stats.Reconnects, 1)
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		Pings:             atomic.LoadUint64(&c.stats.Pings),
		Masters:           atomic.LoadUint64(&c.stats.Masters),
		Slaves:            atomic.LoadUint64(&c.stats.Slaves),
		MasterAddrLookups: atomic.LoadUint64(&c.stats.MasterAddrLookups),
		MasterDownQueries: atomic.LoadUint64(&c.stats.MasterDownQueries),
		Resets:            atomic.LoadUint64(&c.stats.Resets),
		Errors:            atomic.LoadUint64(&c.stats.Errors),
		ServerErrors:      atomic.LoadUint64(&c.stats.ServerErrors),
		ProtocolErrors:    atomic.LoadUint64(&c.stats.ProtocolErrors),
		Connects:          atomic.LoadUint64(&c.stats.Connects),
		ConnectFailures:   atomic.LoadUint64(&c.stats.ConnectFailures),
		Reconnects:        atomic.LoadUint64(&c.stats.Reconnects),
	}
}
