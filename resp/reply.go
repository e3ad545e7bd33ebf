package resp

import (
	"strconv"
	"strings"
)

// Reply is one fully decoded reply.
//
// The set of implementations is closed: SimpleString, SimpleError, Integer,
// BulkString and Array. Consumers switch on the concrete type:
//
//	switch r := reply.(type) {
//	case resp.SimpleString:
//	case resp.SimpleError:
//	case resp.Integer:
//	case resp.BulkString:
//	case resp.Array:
//	}
type Reply interface {
	// Type returns the wire prefix of the reply.
	Type() Type

	// String returns a human readable rendering, used for logs and the CLI.
	String() string

	sealed()
}

// SimpleString is a "+" reply.
type SimpleString string

// SimpleError is a "-" reply. The client surfaces it as a ServerError.
type SimpleError string

// Integer is a ":" reply.
type Integer int64

// BulkString is a "$" reply. A nil BulkString is the null bulk reply ($-1);
// an empty non-nil BulkString is the zero-length reply ($0).
type BulkString []byte

// Array is a "*" reply. A nil Array is the null array reply (*-1); an empty
// non-nil Array is the zero-length reply (*0).
type Array []Reply

var (
	_ Reply = SimpleString("")
	_ Reply = SimpleError("")
	_ Reply = Integer(0)
	_ Reply = BulkString(nil)
	_ Reply = Array(nil)
)

func (SimpleString) Type() Type { return TypeSimpleString }
func (SimpleError) Type() Type  { return TypeError }
func (Integer) Type() Type      { return TypeInteger }
func (BulkString) Type() Type   { return TypeBulkString }
func (Array) Type() Type        { return TypeArray }

func (SimpleString) sealed() {}
func (SimpleError) sealed()  {}
func (Integer) sealed()      {}
func (BulkString) sealed()   {}
func (Array) sealed()        {}

func (s SimpleString) String() string { return string(s) }
func (e SimpleError) String() string  { return "(error) " + string(e) }
func (i Integer) String() string      { return strconv.FormatInt(int64(i), 10) }

func (b BulkString) String() string {
	if b.IsNull() {
		return "(nil)"
	}
	return string(b)
}

// IsNull reports whether b is the null bulk reply.
func (b BulkString) IsNull() bool {
	return b == nil
}

func (a Array) String() string {
	if a.IsNull() {
		return "(nil)"
	}
	parts := make([]string, len(a))
	for i, item := range a {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IsNull reports whether a is the null array reply.
func (a Array) IsNull() bool {
	return a == nil
}

// Text returns the textual form of a scalar reply.
//
// Simple strings and non-null bulk strings are returned verbatim, integers
// in base 10. Errors, arrays and null bulk strings return ok == false.
func Text(r Reply) (text string, ok bool) {
	switch v := r.(type) {
	case SimpleString:
		return string(v), true
	case BulkString:
		if v.IsNull() {
			return "", false
		}
		return string(v), true
	case Integer:
		return strconv.FormatInt(int64(v), 10), true
	default:
		return "", false
	}
}
