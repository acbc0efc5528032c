// Package errors defines the error envelope returned by every engagement
// and access route.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable part of an error response.
type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrContentLocked      ErrorCode = "CONTENT_LOCKED"
	ErrValidation         ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest         ErrorCode = "BAD_REQUEST"
	ErrRateLimited        ErrorCode = "RATE_LIMITED"
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[ErrorCode]int{
	ErrNotFound:           http.StatusNotFound,
	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrContentLocked:      http.StatusForbidden,
	ErrValidation:         http.StatusUnprocessableEntity,
	ErrBadRequest:         http.StatusBadRequest,
	ErrRateLimited:        http.StatusTooManyRequests,
	ErrInternalError:      http.StatusInternalServerError,
	ErrServiceUnavailable: http.StatusServiceUnavailable,
}

// StatusCode returns the HTTP status for the code, 500 for unknown codes.
func (e ErrorCode) StatusCode() int {
	if status, ok := statusByCode[e]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// APIError is a viewer-facing failure. Message is shown verbatim in the UI.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Status  int       `json:"-"`

	// Set on CONTENT_LOCKED so clients can show a password or membership prompt
	Reason         string   `json:"reason,omitempty"`
	RequiredLevels []string `json:"required_levels,omitempty"`
}

func (e *APIError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
}

// New builds an APIError whose status follows from its code.
func New(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: code.StatusCode()}
}

// NotFound reports a missing post, comment, term or library section.
func NotFound(resource string) *APIError {
	return New(ErrNotFound, resource+" not found")
}

func Unauthorized(message string) *APIError { return New(ErrUnauthorized, message) }

func Forbidden(message string) *APIError { return New(ErrForbidden, message) }

func BadRequest(message string) *APIError { return New(ErrBadRequest, message) }

func RateLimited(message string) *APIError { return New(ErrRateLimited, message) }

// ValidationError ties a 422 to the request field that failed.
func ValidationError(field, message string) *APIError {
	err := New(ErrValidation, message)
	err.Field = field
	return err
}

// Locked reports content the viewer must unlock or join a membership for.
func Locked(reason, message string, levels []string) *APIError {
	err := New(ErrContentLocked, message)
	err.Reason = reason
	err.RequiredLevels = levels
	return err
}

// InternalError must never carry driver or query detail in message.
func InternalError(message string) *APIError { return New(ErrInternalError, message) }
