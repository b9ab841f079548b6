package clients

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork = errors.New("event service unreachable")
	ErrAuth    = errors.New("missing or expired credentials")
)

// RejectionError is a non-2xx answer from the Event Service other than an
// authentication failure.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("event service rejected request: status %d", e.StatusCode)
	}

	return fmt.Sprintf("event service rejected request: status %d: %s", e.StatusCode, e.Message)
}

// RejectionMessage returns the server-provided message of a RejectionError in
// err's chain.
func RejectionMessage(err error) (string, bool) {
	var rej *RejectionError
	if !errors.As(err, &rej) {
		return "", false
	}

	return rej.Message, true
}
