// Package apperr defines the closed set of failure kinds the API can
// surface. Handlers and services build errors here; the HTTP layer maps
// each kind to a status code exactly once.
package apperr

import "errors"

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindUpstream
)

// Error is the single error type crossing service boundaries.
type Error struct {
	kind    Kind
	message string
	fields  map[string][]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Kind returns the failure classification.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the client-facing message without any wrapped cause.
func (e *Error) Message() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Fields returns per-field constraint violations for validation errors,
// nil otherwise.
func (e *Error) Fields() map[string][]string { return e.fields }

// Validation reports a client-caused 400. fields may be nil for
// structural problems such as a malformed body or bad credentials.
func Validation(message string, fields map[string][]string) error {
	return &Error{kind: KindValidation, message: message, fields: fields}
}

// Unauthenticated reports a 401.
func Unauthenticated(message string) error {
	return &Error{kind: KindUnauthenticated, message: message}
}

// NotFound reports a 404.
func NotFound(message string) error {
	return &Error{kind: KindNotFound, message: message}
}

// Conflict reports a 409.
func Conflict(message string) error {
	return &Error{kind: KindConflict, message: message}
}

// Upstream reports a 500 caused by the datastore or another dependency.
// The cause is included in the client-facing message for diagnostics.
func Upstream(message string, cause error) error {
	return &Error{kind: KindUpstream, message: message, cause: cause}
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsConflict(err error) bool { return KindOf(err) == KindConflict }
