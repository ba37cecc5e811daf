package manifest

import (
	"fmt"

	"recap/internal/services"
)

// Error reports a fatal manifest failure: transport, status, decode, or an
// empty slide list. It matches services.ErrManifest with errors.Is.
type Error struct {
	Source string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("manifest %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrManifest}
	}
	return []error{services.ErrManifest, e.Err}
}

func newError(source, reason string, err error) *Error {
	return &Error{Source: source, Reason: reason, Err: err}
}
