// Package apperror defines the error kinds shared by the service layer and
// the HTTP response helpers.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	Internal Kind = iota
	NotFound
	InvalidRequest
	InvalidState
	Forbidden
	Conflict
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case InvalidRequest:
		return "invalid request"
	case InvalidState:
		return "invalid state"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and a client-facing message to err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NotFoundf(format string, args ...any) *Error { return New(NotFound, format, args...) }

func InvalidRequestf(format string, args ...any) *Error { return New(InvalidRequest, format, args...) }

func InvalidStatef(format string, args ...any) *Error { return New(InvalidState, format, args...) }

func Forbiddenf(format string, args ...any) *Error { return New(Forbidden, format, args...) }

func Conflictf(format string, args ...any) *Error { return New(Conflict, format, args...) }

// KindOf returns Internal for errors that carry no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message is the text safe to show a client.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error!"
}
