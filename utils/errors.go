package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure for callers: it decides the HTTP status
// and whether a retry makes sense.
type ErrorKind string

const (
	// KindValidation: the input is wrong; the caller must correct it.
	KindValidation ErrorKind = "validation"
	// KindNotFound: a referenced admission/invoice/session/company is absent.
	KindNotFound ErrorKind = "not_found"
	// KindConflict: the operation collides with existing state (duplicate
	// billing, overpayment, session already open/closed, double batching).
	KindConflict ErrorKind = "conflict"
	// KindAllocation: sequence serialization exhausted its retry budget.
	// The whole operation was rolled back and is safe to retry.
	KindAllocation ErrorKind = "allocation"
	// KindPersistence: the underlying transaction aborted for any other
	// reason. Full rollback, safe to retry.
	KindPersistence ErrorKind = "persistence"
)

// AppError carries a kind alongside a human-readable message. Every
// multi-step mutation guarantees its transaction was rolled back before
// an AppError is returned.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewAllocationError(message string, err error) *AppError {
	return &AppError{Kind: KindAllocation, Message: message, Err: err}
}

func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Anything unclassified is
// treated as a persistence failure.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// MessageOf returns the user-facing message for an error chain. Wrapped
// internal errors stay out of the message so rolled-back ids never leak.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}

// HTTPStatus maps an error kind to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAllocation:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
