// Package errors defines the application error taxonomy and its mapping onto
// HTTP responses. Workflows return *Error values; the request boundary maps
// the kind to a status code and a {message, data} body.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation indicates invalid input, with field-level detail.
	KindValidation Kind = iota + 1
	// KindUnauthenticated indicates a missing or failed identity check.
	KindUnauthenticated
	// KindForbidden indicates the caller is not allowed to act on the resource.
	KindForbidden
	// KindNotFound indicates the requested resource does not exist.
	KindNotFound
	// KindConflict indicates a uniqueness conflict, e.g. a duplicate email.
	KindConflict
	// KindInternal indicates an unclassified failure such as storage errors.
	KindInternal
)

// FieldError carries one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the application error type carried through workflows.
type Error struct {
	Kind    Kind
	Message string
	Data    []FieldError
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a 422-class error with field-level messages.
func Validation(message string, data ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Data: data}
}

// Unauthenticated builds a 401-class error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Forbidden builds a 403-class error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a 404-class error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a uniqueness-conflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unclassified failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Message string       `json:"message"`
	Data    []FieldError `json:"data,omitempty"`
}

// StatusCode maps an error to its HTTP status. Unclassified errors are 500.
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindConflict:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code returns a stable machine-readable code for the error, used by the
// GraphQL error channel.
func Code(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "INTERNAL_ERROR"
	}
	switch appErr.Kind {
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

// Response builds the JSON error body. Internal details are never leaked;
// data is populated only for validation-style errors.
func Response(err error) ErrorResponse {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		return ErrorResponse{Message: "internal server error"}
	}
	return ErrorResponse{Message: appErr.Message, Data: appErr.Data}
}

// Classify wraps err as Internal unless it already carries a kind.
func Classify(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
