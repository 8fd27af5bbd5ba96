package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// ErrValidation marks a file rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrExtraction marks a record whose extraction exhausted all channels.
	ErrExtraction = errors.New("extraction failed")
	// ErrParse marks a model response that was not coercible structured data.
	// Folded into ErrExtraction at the channel level.
	ErrParse = errors.New("parse failed")
	// ErrStore marks a hosted-store read or write rejection.
	ErrStore = errors.New("store error")
)

// NewAppError builds an AppError with a stable code, a human message, and an
// underlying cause from the taxonomy above.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
