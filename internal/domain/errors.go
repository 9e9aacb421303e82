package domain

import (
	"errors"
	"fmt"
)

// TransportError wraps a network-level failure that occurred before any
// response was obtained from the feed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("feed transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ServerError reports a non-success HTTP status from the feed.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string { return fmt.Sprintf("feed returned status %d", e.StatusCode) }

// ParseError reports a structurally invalid feed payload.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse feed payload: %s", e.Reason) }

// ErrorKind maps a fetch error to a stable label for logs and metrics.
func ErrorKind(err error) string {
	var (
		transportErr *TransportError
		serverErr    *ServerError
		parseErr     *ParseError
	)
	switch {
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.As(err, &serverErr):
		return "server_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "unknown"
	}
}
