package sentinel

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConnection matches any NoConnectionError via errors.Is.
	ErrNoConnection = errors.New("sentinel: no connection")

	// ErrClientClosed is returned by commands issued after Close.
	ErrClientClosed = errors.New("sentinel: client closed")
)

// NoConnectionError is returned when the Sentinel cannot be reached.
// Nothing was sent.
type NoConnectionError struct {
	Addr string
	Err  error
}

func (e *NoConnectionError) Error() string {
	return fmt.Sprintf("sentinel: no connection to %s: %v", e.Addr, e.Err)
}

// Unwrap returns the dial error
func (e *NoConnectionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNoConnection) true.
func (e *NoConnectionError) Is(target error) bool {
	return target == ErrNoConnection
}

// ShouldCloseConnection returns false - there is no connection to close
func (e *NoConnectionError) ShouldCloseConnection() bool {
	return false
}
