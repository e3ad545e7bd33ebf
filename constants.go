package sentinel

// DefaultPort is the well-known Sentinel port.
const DefaultPort = 26379

// Field names commonly present in master and replica records.
// The client passes every field through; these only name the ones the
// accessors on Record read.
const (
	FieldName  = "name"
	FieldIP    = "ip"
	FieldHost  = "host"
	FieldPort  = "port"
	FieldFlags = "flags"
	FieldRunID = "runid"
)

// Flags reported in the "flags" field.
const (
	FlagMaster         = "master"
	FlagSlave          = "slave"
	FlagSubjectiveDown = "s_down"
	FlagObjectiveDown  = "o_down"
	FlagDisconnected   = "disconnected"
)

// DownStateDown is the down state reported when the queried Sentinel
// considers the master down.
const DownStateDown = "1"

// LeaderNone is the leader run id reported when no vote was cast.
const LeaderNone = "*"
