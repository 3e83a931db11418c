package groups

import (
	"errors"
	"fmt"
)

// Kind classifies a group operation failure so the HTTP layer can pick a
// status code without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindInvariant
	KindProvider
)

// Error is a group operation failure with a machine-distinguishable kind and
// a message safe to return to the client.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func authorizationError(msg string) *Error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

func invariantError(msg string) *Error {
	return &Error{Kind: KindInvariant, Msg: msg}
}

func providerError(msg string, err error) *Error {
	return &Error{Kind: KindProvider, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindUnknown for errors that did not
// originate in this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the client-safe message of err, or a generic fallback.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "Internal server error"
}
