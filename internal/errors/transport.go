package errors

import "errors"

// TransportError represents a network or I/O failure while talking to the
// catalog API. It aborts the current search action only; nothing is retried.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError wrapping the underlying cause.
func NewTransportError(message string, err error) *TransportError {
	return &TransportError{Message: message, Err: err}
}

// IsTransportError reports whether err is a TransportError (even when wrapped).
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
