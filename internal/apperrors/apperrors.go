// Package apperrors defines the service error taxonomy. Handlers map these
// kinds to HTTP statuses; everything else in the service returns them as
// plain errors.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindValidation marks user-correctable input problems (400).
	KindValidation Kind = iota
	// KindAuthorization marks wrong-role or wrong-supplier access (403).
	KindAuthorization
	// KindNotFound marks unknown batches, codes or suppliers (404).
	KindNotFound
	// KindInternal marks store and storage failures (500). Always logged
	// with context before being returned.
	KindInternal
)

// Error is the canonical service error. Reasons carries per-row rejection
// messages for validation failures that aggregate many of them.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Reasons []string
	Err     error
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

func Validation(code, message string, reasons ...string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Reasons: reasons}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: "FORBIDDEN", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, Err: err}
}

// As unwraps err into an *Error, or wraps it as internal when it is not one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("unexpected error", err)
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(err error) int {
	switch As(err).Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
