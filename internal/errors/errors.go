package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Storage level sentinels, mapped to HTTP statuses by the handlers
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrInvalidReference reports a write pointing at a row that does not exist
	ErrInvalidReference = errors.New("invalid reference")
)

// AppError is a classified error. Its message is safe to show to the caller.
type AppError struct {
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return e.Message
}

// New returns a classified error with the given status code
func New(statusCode int, message string) *AppError {
	return &AppError{Message: message, StatusCode: statusCode}
}

func BadRequest(format string, args ...any) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

func PayloadTooLarge(message string) *AppError {
	return New(http.StatusRequestEntityTooLarge, message)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message)
}

// ConfigError reports a deployment misconfiguration. It is unclassified but its
// message is still surfaced to the caller so operators can see what is missing.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Configuration Error: %s %s", e.Setting, e.Reason)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
