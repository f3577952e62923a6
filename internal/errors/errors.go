// Package errors defines custom error types for request handling.
// AppError classifies a failure so the HTTP layer can pick a status code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a classified failure of an endpoint
type AppError struct {
	Type       string
	Message    string
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeValidation    = "VALIDATION"
	ErrorTypeUpstream      = "UPSTREAM"
	ErrorTypeNotFound      = "NOT_FOUND"
	ErrorTypeInternal      = "INTERNAL"
	ErrorTypeConfiguration = "CONFIGURATION_INVALID"
)

// NewAppError creates a new AppError
func NewAppError(errorType, message string, statusCode int, cause error) *AppError {
	return &AppError{
		Type:       errorType,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewValidationError reports a missing or invalid query parameter
func NewValidationError(param, reason string) *AppError {
	return NewAppError(ErrorTypeValidation, fmt.Sprintf("Invalid parameter '%s': %s", param, reason), http.StatusBadRequest, nil)
}

// NewMissingParamError reports a required query parameter that is absent
func NewMissingParamError(param string) *AppError {
	return NewAppError(ErrorTypeValidation, fmt.Sprintf("Missing required parameter '%s'", param), http.StatusBadRequest, nil)
}

// NewUpstreamError wraps a failed page fetch. A 404 from the origin becomes a 404.
func NewUpstreamError(message string, cause error) *AppError {
	status := http.StatusInternalServerError
	var fe *FetchError
	if errors.As(cause, &fe) && fe.StatusCode == http.StatusNotFound {
		return NewAppError(ErrorTypeNotFound, message, http.StatusNotFound, cause)
	}
	return NewAppError(ErrorTypeUpstream, message, status, cause)
}

// NewNotFoundError reports an upstream page that does not exist
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrorTypeNotFound, message, http.StatusNotFound, nil)
}

// NewInternalError reports an unexpected failure
func NewInternalError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError, cause)
}

// NewConfigurationError reports a programming or configuration mistake
func NewConfigurationError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeConfiguration, message, http.StatusInternalServerError, cause)
}

// FetchError is returned when neither the proxy nor the direct request produced a page.
type FetchError struct {
	URL        string
	Via        string // "proxy" or "direct"
	StatusCode int    // 0 when no response was received
	Cause      error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Cause != nil:
		return fmt.Sprintf("fetch %s via %s failed: HTTP %d: %v", e.URL, e.Via, e.StatusCode, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s via %s failed: HTTP %d", e.URL, e.Via, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s via %s failed: %v", e.URL, e.Via, e.Cause)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// StatusCode maps any error to the HTTP status the client should see.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message that is safe to show to clients.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil && appErr.Type != ErrorTypeValidation {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return "Internal server error"
}
