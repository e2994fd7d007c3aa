package errors

import "errors"

// MalformedResponseError represents an API payload that could not be decoded:
// a missing top-level "results" field or an element that fails structural
// decoding. The store is never touched when this is returned.
type MalformedResponseError struct {
	Message string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// NewMalformedResponseError creates a MalformedResponseError with the given message.
func NewMalformedResponseError(message string, err error) *MalformedResponseError {
	return &MalformedResponseError{Message: message, Err: err}
}

// IsMalformedResponseError reports whether err is a MalformedResponseError (even when wrapped).
func IsMalformedResponseError(err error) bool {
	var malformedErr *MalformedResponseError
	return errors.As(err, &malformedErr)
}
