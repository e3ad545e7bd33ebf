package sentinel

import (
	"net"
	"slices"
	"strconv"
	"strings"

	"github.com/pior/sentinel/resp"
)

// Record is one master or replica as reported by the Sentinel.
// Field names are passed through verbatim, no schema is enforced.
type Record map[string]string

// Name returns the "name" field.
func (r Record) Name() string {
	return r[FieldName]
}

// Host returns the "ip" field, falling back to "host".
func (r Record) Host() string {
	if ip, ok := r[FieldIP]; ok {
		return ip
	}
	return r[FieldHost]
}

// Port returns the "port" field.
func (r Record) Port() string {
	return r[FieldPort]
}

// Addr returns host:port, or an empty string if either is missing.
func (r Record) Addr() string {
	host, port := r.Host(), r.Port()
	if host == "" || port == "" {
		return ""
	}
	return net.JoinHostPort(host, port)
}

// Flags returns the comma separated "flags" field as a slice.
func (r Record) Flags() []string {
	flags := r[FieldFlags]
	if flags == "" {
		return nil
	}
	return strings.Split(flags, ",")
}

// HasFlag reports whether flag is present in the "flags" field.
func (r Record) HasFlag(flag string) bool {
	return slices.Contains(r.Flags(), flag)
}

// MasterAddr is the result of GetMasterAddrByName.
type MasterAddr struct {
	IP    string `json:"ip"`
	Port  string `json:"port"`
	Found bool   `json:"found"` // false when the Sentinel does not know the master
}

func (a MasterAddr) String() string {
	if !a.Found {
		return ""
	}
	return net.JoinHostPort(a.IP, a.Port)
}

// MasterDownReply is the result of IsMasterDownByAddr.
type MasterDownReply struct {
	DownState   string `json:"down_state"` // "1" when the Sentinel considers the master down
	Leader      string `json:"leader"`     // leader run id, "*" when no vote was cast
	LeaderEpoch int64  `json:"leader_epoch,omitempty"`
	HasEpoch    bool   `json:"-"` // Sentinels since 2.8 append the leader epoch
}

// IsDown reports whether the queried Sentinel considers the master down.
func (r MasterDownReply) IsDown() bool {
	return r.DownState == DownStateDown
}

func parseRecords(reply resp.Reply) ([]Record, error) {
	arr, ok := reply.(resp.Array)
	if !ok {
		return nil, unexpectedReply("array of records", reply)
	}

	records := make([]Record, 0, len(arr))
	for _, item := range arr {
		record, err := parseRecord(item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// parseRecord flattens an array of alternating keys and values.
// A null bulk value becomes an empty string.
func parseRecord(reply resp.Reply) (Record, error) {
	fields, ok := reply.(resp.Array)
	if !ok {
		return nil, unexpectedReply("record array", reply)
	}
	if len(fields)%2 != 0 {
		return nil, &resp.ParseError{Message: "record has odd field count " + strconv.Itoa(len(fields))}
	}

	record := make(Record, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key, ok := resp.Text(fields[i])
		if !ok {
			return nil, unexpectedReply("record key", fields[i])
		}

		value, ok := resp.Text(fields[i+1])
		if !ok {
			if bulk, isBulk := fields[i+1].(resp.BulkString); !isBulk || !bulk.IsNull() {
				return nil, unexpectedReply("record value", fields[i+1])
			}
		}
		record[key] = value
	}
	return record, nil
}

func parseMasterAddr(reply resp.Reply) (MasterAddr, error) {
	arr, ok := reply.(resp.Array)
	if !ok {
		return MasterAddr{}, unexpectedReply("address array", reply)
	}

	switch len(arr) {
	case 0:
		// null or empty array: unknown master
		return MasterAddr{}, nil
	case 2:
		ip, ok := resp.Text(arr[0])
		if !ok {
			return MasterAddr{}, unexpectedReply("address ip", arr[0])
		}
		port, ok := resp.Text(arr[1])
		if !ok {
			return MasterAddr{}, unexpectedReply("address port", arr[1])
		}
		return MasterAddr{IP: ip, Port: port, Found: true}, nil
	default:
		return MasterAddr{}, &resp.ParseError{Message: "address array has " + strconv.Itoa(len(arr)) + " elements"}
	}
}

func parseMasterDown(reply resp.Reply) (MasterDownReply, error) {
	arr, ok := reply.(resp.Array)
	if !ok || len(arr) < 2 || len(arr) > 3 {
		return MasterDownReply{}, unexpectedReply("down state array", reply)
	}

	state, ok := resp.Text(arr[0])
	if !ok {
		return MasterDownReply{}, unexpectedReply("down state", arr[0])
	}
	leader, ok := resp.Text(arr[1])
	if !ok {
		return MasterDownReply{}, unexpectedReply("leader", arr[1])
	}

	result := MasterDownReply{DownState: state, Leader: leader}
	if len(arr) == 3 {
		epoch, ok := arr[2].(resp.Integer)
		if !ok {
			return MasterDownReply{}, unexpectedReply("leader epoch", arr[2])
		}
		result.LeaderEpoch = int64(epoch)
		result.HasEpoch = true
	}
	return result, nil
}

func parseCount(reply resp.Reply) (int64, error) {
	n, ok := reply.(resp.Integer)
	if !ok {
		return 0, unexpectedReply("integer", reply)
	}
	return int64(n), nil
}

func unexpectedReply(want string, got resp.Reply) error {
	if got == nil {
		return &resp.ParseError{Message: "expected " + want + ", got nothing"}
	}
	return &resp.ParseError{Message: "expected " + want + ", got " + got.Type().String() + " reply"}
}
