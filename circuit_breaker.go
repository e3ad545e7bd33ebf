package sentinel

import (
	"context"
	"errors"
	"time"

	"github.com/pior/sentinel/resp"
	"github.com/sony/gobreaker/v2"
)

// The client itself never retries or trips. NewCircuitBreaker is a helper
// for callers that poll a Sentinel and want to back off while it is down.

// NewCircuitBreaker returns a circuit breaker that opens after
// consecutiveFailures unavailability errors in a row (see IsUnavailable)
// and lets a single probe through after timeout.
// onStateChange may be nil.
func NewCircuitBreaker[T any](name string, consecutiveFailures uint32, timeout time.Duration, onStateChange func(name string, from, to gobreaker.State)) *gobreaker.CircuitBreaker[T] {
	if consecutiveFailures == 0 {
		consecutiveFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return !IsUnavailable(err)
		},
		OnStateChange: onStateChange,
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}

// IsUnavailable reports whether err means the Sentinel could not be used:
// it was unreachable, the connection broke, or it answered garbage.
// Error replies, rejected arguments and caller cancellation are not
// unavailability. A context that expired before anything was sent is not
// either; one that expired while waiting on the Sentinel is.
func IsUnavailable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrNoConnection) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		var connErr *resp.ConnectionError
		return errors.As(err, &connErr)
	}
	return resp.ShouldCloseConnection(err)
}
