package anki

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrorKind classifies a failed AnkiConnect call. The kind decides the
// retry policy: only ConnectionReset is worth retrying, everything else
// fails the call immediately.
type ErrorKind string

const (
	// KindConnectionRefused means nothing is listening at the configured
	// address, usually because Anki is not running.
	KindConnectionRefused ErrorKind = "CONNECTION_REFUSED"

	// KindConnectionReset means the peer dropped the connection mid-call.
	// AnkiConnect does this transiently under load, so these are retried.
	KindConnectionReset ErrorKind = "CONNECTION_RESET"

	// KindRemoteError means AnkiConnect answered but reported a failure
	// in its response envelope.
	KindRemoteError ErrorKind = "REMOTE_ERROR"

	// KindNetwork covers every other transport failure, such as a
	// timeout, a malformed response or an unexpected status code.
	KindNetwork ErrorKind = "NETWORK_ERROR"
)

// TransportError is the error type every failed AnkiConnect call
// resolves to before it reaches a caller.
type TransportError struct {
	Kind    ErrorKind
	Action  string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed (%s): %s: %v", e.Action, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Action, e.Kind, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewConnectionRefusedError wraps a dial failure against a closed port.
func NewConnectionRefusedError(action string, err error) *TransportError {
	return &TransportError{
		Kind:    KindConnectionRefused,
		Action:  action,
		Message: "connection refused",
		Err:     err,
	}
}

// NewConnectionResetError wraps a connection dropped by the peer.
func NewConnectionResetError(action string, err error) *TransportError {
	return &TransportError{
		Kind:    KindConnectionReset,
		Action:  action,
		Message: "connection reset by peer",
		Err:     err,
	}
}

// NewRemoteError wraps a failure reported by AnkiConnect itself.
func NewRemoteError(action, message string) *TransportError {
	return &TransportError{
		Kind:    KindRemoteError,
		Action:  action,
		Message: message,
	}
}

// NewNetworkError wraps any other transport-level failure.
func NewNetworkError(action, message string, err error) *TransportError {
	return &TransportError{
		Kind:    KindNetwork,
		Action:  action,
		Message: message,
		Err:     err,
	}
}

// IsKind reports whether err is a TransportError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == kind
}

// classifyNetworkError maps a low-level HTTP client failure onto the
// retry taxonomy. Refused and reset are detected through the wrapped
// syscall errors; anything else, timeouts included, is a plain network
// error.
func classifyNetworkError(action string, err error) *TransportError {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return NewConnectionRefusedError(action, err)
	case errors.Is(err, syscall.ECONNRESET):
		return NewConnectionResetError(action, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewNetworkError(action, "request timed out", err)
	}
	return NewNetworkError(action, "request failed", err)
}
