package backend

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "operation timed out" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"net.Error", &net.OpError{Op: "dial", Err: timeoutError{}}, true},
		{"bad conn", driver.ErrBadConn, true},
		{"wrapped bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), true},
		{"connection refused text", errors.New("dial tcp 127.0.0.1:3306: connect: connection refused"), true},
		{"invalid connection text", errors.New("invalid connection"), true},
		{"io timeout text", errors.New("read tcp: i/o timeout"), true},
		{"constraint violation", errors.New("Error 1062: Duplicate entry"), false},
		{"validation", errors.New("quantity must be positive"), false},
		{"insufficient stock", ErrInsufficientStock, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNetworkError(tt.err))
		})
	}
}
