package resp

import (
	"errors"
	"fmt"
)

// Error types for Sentinel protocol operations.
// They let callers decide whether the connection can still be used after a
// failed exchange.

// ServerError is an error reply ("-" line) sent by the Sentinel.
// The exchange completed normally, only the command failed, so the
// connection can be REUSED.
//
// Common causes:
//   - Unknown master name for commands that require one
//   - Wrong number of arguments
//   - Unknown SENTINEL subcommand
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "sentinel error: " + e.Message
}

// ShouldCloseConnection returns false - the reply was fully consumed
func (e *ServerError) ShouldCloseConnection() bool {
	return false
}

// ParseError represents a malformed or truncated reply stream.
// The read cursor is somewhere inside a reply, so the connection must be
// CLOSED.
//
// Common causes:
//   - Unknown type prefix
//   - Non-numeric integer or length
//   - Missing CRLF terminator
//   - Stream ended before a declared bulk length was satisfied
//   - Reply shape does not match the command (e.g. integer instead of array)
type ParseError struct {
	Message string
	Err     error // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "protocol error: " + e.Message + ": " + e.Err.Error()
	}
	return "protocol error: " + e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - parse errors leave the stream desynchronized
func (e *ParseError) ShouldCloseConnection() bool {
	return true
}

// ConnectionError wraps I/O errors from an established connection.
//
// Connection handling: connection is already broken, CLOSE it
type ConnectionError struct {
	Op  string // Operation that failed (read, write, ...)
	Err error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - connection errors mean connection is broken
func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// InvalidArgumentError is returned when a command argument cannot be sent
// safely on a single request line. Nothing was written, so the connection
// is still valid.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// ShouldCloseConnection returns false - the command was rejected client-side
func (e *InvalidArgumentError) ShouldCloseConnection() bool {
	return false
}

// ErrorWithConnectionState is implemented by all protocol error types.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err leaves the connection unusable.
//
// Returns false for nil, ServerError and InvalidArgumentError. Unknown
// error types are treated conservatively and return true.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}
