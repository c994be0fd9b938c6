// Package azerr implements Azrael's error taxonomy: a small set
// of effect-based error kinds shared by the store, asset store and
// Clerk, so handlers and tests can classify a failure with errors.Is
// instead of string-matching messages.
package azerr

import (
	"errors"
	"fmt"
)

// Kind identifies the effect class of an error, independent of the
// component that raised it.
type Kind string

const (
	InvalidArgument Kind = "invalid_argument"
	NotFound        Kind = "not_found"
	AlreadyExists   Kind = "already_exists"
	Conflict        Kind = "conflict"
	IntegrityLoss   Kind = "integrity_loss"
	PayloadTooLarge Kind = "payload_too_large"
)

// Error pairs a Kind with a human-readable message, matching the
// "descriptive msg, no state change" contract every handler follows.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is lets errors.Is(err, azerr.NotFound) work by comparing against a
// bare Kind value wrapped as a target error.
func (e *Error) Is(target error) bool {
	var k *Error
	if errors.As(target, &k) {
		return k.Kind == e.Kind
	}
	return false
}

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Of returns the Kind of err if it (or something it wraps) is an
// *Error, and ok=false otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
