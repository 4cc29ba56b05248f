package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeInternal     ErrorType = "internal"
	// ErrorTypeRateLimited is returned when a client exceeds its request budget
	ErrorTypeRateLimited ErrorType = "rate_limited"
	// ErrorTypeUnavailable means the server is at capacity or a feature is not configured
	ErrorTypeUnavailable ErrorType = "unavailable"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
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

func newError(t ErrorType, message string, err error) error {
	return &AppError{Type: t, Message: message, Err: err}
}

func NotFoundf(format string, args ...any) error {
	return newError(ErrorTypeNotFound, fmt.Sprintf(format, args...), nil)
}

func Validation(message string) error {
	return newError(ErrorTypeValidation, message, nil)
}

func Validationf(format string, args ...any) error {
	return newError(ErrorTypeValidation, fmt.Sprintf(format, args...), nil)
}

func WrapValidation(message string, err error) error {
	return newError(ErrorTypeValidation, message, err)
}

func Conflictf(format string, args ...any) error {
	return newError(ErrorTypeConflict, fmt.Sprintf(format, args...), nil)
}

func WrapInternal(message string, err error) error {
	return newError(ErrorTypeInternal, message, err)
}

func Unauthorized(message string) error {
	return newError(ErrorTypeUnauthorized, message, nil)
}

func Forbidden(message string) error {
	return newError(ErrorTypeForbidden, message, nil)
}

func RateLimited(message string) error {
	return newError(ErrorTypeRateLimited, message, nil)
}

func Unavailable(message string) error {
	return newError(ErrorTypeUnavailable, message, nil)
}

// GetType returns the error type of an error. Untyped errors are internal.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// ClientMessage is the text safe to show a client. Internal errors and
// wrapped causes are never exposed.
func ClientMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Type == ErrorTypeInternal {
		return "internal server error"
	}
	return appErr.Message
}
