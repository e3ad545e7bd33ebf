package resp

// Type is the one-byte prefix identifying a reply variant on the wire.
type Type byte

// Reply type prefixes
const (
	TypeSimpleString Type = '+'
	TypeError        Type = '-'
	TypeInteger      Type = ':'
	TypeBulkString   Type = '$'
	TypeArray        Type = '*'
)

func (t Type) String() string {
	switch t {
	case TypeSimpleString:
		return "simple-string"
	case TypeError:
		return "error"
	case TypeInteger:
		return "integer"
	case TypeBulkString:
		return "bulk-string"
	case TypeArray:
		return "array"
	default:
		return "unknown(" + string(rune(t)) + ")"
	}
}

// Protocol delimiters
const (
	// CRLF terminates every request and reply line
	CRLF = "\r\n"

	// Space separates command arguments
	Space = " "
)

// Limits
const (
	// MaxBulkLength matches the server's default proto-max-bulk-len (512MB).
	MaxBulkLength = 512 * 1024 * 1024

	// MaxArrayLength bounds the element count accepted for a single array.
	MaxArrayLength = 1024 * 1024

	// nullLength is the declared length of a null bulk string or array.
	nullLength = -1
)

// Command names
const (
	CmdPing     = "PING"
	CmdSentinel = "SENTINEL"
)

// SENTINEL subcommands
const (
	SubMasters             = "masters"
	SubSlaves              = "slaves"
	SubGetMasterAddrByName = "get-master-addr-by-name"
	SubIsMasterDownByAddr  = "is-master-down-by-addr"
	SubReset               = "reset"
)

// ReplyPong is the simple string a healthy Sentinel answers PING with.
const ReplyPong = "PONG"
