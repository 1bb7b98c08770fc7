// Package fault defines the stable error taxonomy shared by the sequence,
// route and tracking services. Every error surfaced to a caller carries a
// Kind; the REST layer maps kinds to HTTP status codes.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal covers storage and transaction failures. Details are
	// logged server-side and never leak to the caller.
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindUnauthorized
	KindInvalidStateTransition
	KindRouteNotActive
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidStateTransition:
		return "InvalidStateTransition"
	case KindRouteNotActive:
		return "RouteNotActive"
	default:
		return "Internal"
	}
}

// Error is an error with a Kind attached.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's kind.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the human-readable message without the kind prefix.
func (e *Error) Message() string { return e.msg }

// New creates an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{kind: kind, msg: msg, err: err}
}

// KindOf extracts the kind from err. Errors without a Kind are treated as
// internal failures.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err. Internal errors get a
// generic message so storage details never reach the client.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.kind != KindInternal {
		return fe.msg
	}
	return "internal server error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
