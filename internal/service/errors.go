package service

import "errors"

// Error kinds. Match with errors.Is; the concrete error carries the message
// that is safe to show a client.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func fail(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

// Unauthorized builds an ErrUnauthorized with a client facing message. The
// transport uses it for missing or bad tokens.
func Unauthorized(msg string) error {
	return fail(ErrUnauthorized, msg)
}

// InvalidInput builds an ErrInvalidInput, e.g. for an undecodable body.
func InvalidInput(msg string) error {
	return fail(ErrInvalidInput, msg)
}
