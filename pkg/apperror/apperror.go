package apperror

import (
	"errors"
	"fmt"
)

// Kind represents the category of an application error
type Kind string

const (
	KindValidation            Kind = "validation"
	KindUnauthorized          Kind = "unauthorized"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindUnprocessable         Kind = "unprocessable"
	KindInternalInconsistency Kind = "internal_inconsistency"
	KindInternal              Kind = "internal"
)

// Error is a categorized error that the delivery layer can render as {code, message}
type Error struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two application errors by code, so a wrapped or re-messaged
// copy still satisfies errors.Is against the sentinel it was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new application error
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Cause: e.Cause}
}

// Wrap returns a copy of the error with the given cause attached
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Cause: cause}
}

// KindOf returns the kind of err, or KindInternal for errors that are not application errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts the application error from err, if there is one
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
