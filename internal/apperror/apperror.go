package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrUpstream   = errors.New("upstream error")
	ErrStorage    = errors.New("storage error")
)

type AppError struct {
	Err     error  // sentinel category, checked with errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Upstream returns an AppError for a failure of an external service.
// HTTP handlers map this to 502 Bad Gateway.
func Upstream(message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: message,
	}
}

// Storage wraps a persistence-layer failure. The underlying cause is kept
// in the chain so logs can show it, while clients only see the message.
func Storage(err error, message string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
		Message: message,
	}
}
