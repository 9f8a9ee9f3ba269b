package client

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Error kinds. Match them with errors.Is against any error returned by Client.
var (
	// ErrUnreachable means the request never produced an HTTP response.
	ErrUnreachable = errors.New("products api unreachable")
	// ErrRejected means the API answered with a non-2xx status.
	ErrRejected = errors.New("products api rejected the request")
	// ErrMalformed means the response body could not be decoded.
	ErrMalformed = errors.New("products api returned a malformed response")
)

// Error describes a failed API call.
type Error struct {
	Op     string // list, create or delete
	Kind   error  // one of the Err* kinds
	Status int    // HTTP status for ErrRejected and ErrMalformed
	Detail string // error message from the API body, if any
	Err    error  // underlying cause
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
