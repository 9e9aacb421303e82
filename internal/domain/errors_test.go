package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/couchcryptid/quake-watch/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"transport", &domain.TransportError{Err: errors.New("connection refused")}, "transport_error"},
		{"server", &domain.ServerError{StatusCode: 500}, "server_error"},
		{"parse", &domain.ParseError{Reason: "missing features"}, "parse_error"},
		{"wrapped transport", fmt.Errorf("fetch: %w", &domain.TransportError{Err: errors.New("eof")}), "transport_error"},
		{"plain", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ErrorKind(tt.err))
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: timeout")
	err := &domain.TransportError{Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "timeout")
}

func TestServerError_Message(t *testing.T) {
	err := &domain.ServerError{StatusCode: 503}
	assert.Contains(t, err.Error(), "503")
}
