package oxidb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by calls on a client whose connection was closed.
var ErrClosed = errors.New("oxidb: client closed")

// ServerError is an {"ok": false} response from oxidb-server.
type ServerError struct {
	Cmd string
	Msg string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("oxidb: %s: %s", e.Cmd, e.Msg)
}

// IsNotFound reports whether err is a server error about a missing object,
// bucket or collection.
func IsNotFound(err error) bool {
	var se *ServerError
	if !errors.As(err, &se) {
		return false
	}
	msg := strings.ToLower(se.Msg)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no such")
}

// IsAlreadyExists reports whether err complains about an existing index or bucket.
func IsAlreadyExists(err error) bool {
	var se *ServerError
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(strings.ToLower(se.Msg), "exists")
}
