package watch

import (
	"slices"
	"strconv"

	"github.com/pior/sentinel"
	"github.com/zeebo/xxh3"
)

// TopologyFields are the master fields that define the topology.
// Counters and timers such as last-ping-sent change on every poll and are
// left out of the fingerprint.
var TopologyFields = []string{
	sentinel.FieldName,
	sentinel.FieldIP,
	sentinel.FieldPort,
	sentinel.FieldFlags,
	"quorum",
	"config-epoch",
	"num-slaves",
	"num-other-sentinels",
}

// Fingerprint hashes the topology fields of masters.
// The result does not depend on the order of masters. Each value is length
// prefixed, so no value can spill into the next field.
func Fingerprint(masters []sentinel.Record) uint64 {
	entries := make([]string, 0, len(masters))

	for _, m := range masters {
		var b []byte
		for _, field := range TopologyFields {
			value := m[field]
			b = strconv.AppendInt(b, int64(len(value)), 10)
			b = append(b, ':')
			b = append(b, value...)
		}
		entries = append(entries, string(b))
	}

	slices.Sort(entries)

	h := xxh3.New()
	for _, entry := range entries {
		_, _ = h.WriteString(strconv.Itoa(len(entry)))
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(entry)
	}
	return h.Sum64()
}
