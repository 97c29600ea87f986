package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP layer maps each kind to a
// status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Field names the input that caused a conflict.
	Field string
	// Fields holds per-field validation messages keyed by JSON name.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that did not come from this package
// are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

const internalMessage = "Internal server error."

func validationError(msg string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func authenticationError(msg string) error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func authorizationError(msg string) error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func conflictError(field string) error {
	return &Error{Kind: KindConflict, Message: field + " already exists.", Field: field}
}

func notFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func internalError(err error) error {
	return &Error{Kind: KindInternal, Message: internalMessage, Err: err}
}
