// Package domainerrors carries business failure categories from stores and
// services up to the transport layer, which maps them onto status codes.
package domainerrors

import "errors"

type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_failed"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	// CodeTooManyRequests covers both login lockout and rate limiting.
	CodeTooManyRequests Code = "too_many_requests"
	CodeTimeout         Code = "timeout"
	// CodeInvariantViolation is raised by aggregates refusing a state change.
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Error pairs a Code with a client-safe message. Err keeps the underlying
// cause for logs and errors.Is/As; it is never rendered to clients.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match on Code alone, so errors.Is(err, &Error{Code: c})
// finds any domain error of that category in the chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches msg to err. A domain error already in err's chain keeps its
// code; code applies only to foreign errors.
func Wrap(err error, code Code, msg string) error {
	if inner, ok := asError(err); ok {
		code = inner.Code
	}
	return &Error{Code: code, Message: msg, Err: err}
}

func HasCode(err error, code Code) bool {
	e, ok := asError(err)
	return ok && e.Code == code
}

// CodeOf returns the code of the outermost domain error in the chain,
// or CodeInternal for anything else.
func CodeOf(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return CodeInternal
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
