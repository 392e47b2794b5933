package models

import (
	"errors"
	"net/http"

	"catalog-service/internal/errs"
)

// Error codes
const (
	// General errors
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"

	// Account errors
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeRegistrationFailed = "REGISTRATION_FAILED"
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithMessage replaces the client-facing message
func (e *APIError) WithMessage(message string) *APIError {
	cp := *e
	cp.Message = message
	return &cp
}

// Response returns the JSON body sent to the client
func (e *APIError) Response() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code}
}

// Predefined errors
var (
	ErrUnauthenticated    = NewAPIError(ErrCodeUnauthorized, "Authorization token required", http.StatusUnauthorized)
	ErrForbidden          = NewAPIError(ErrCodeForbidden, "Invalid or expired token", http.StatusForbidden)
	ErrInvalidCredentials = NewAPIError(ErrCodeInvalidCredentials, "Invalid username or password", http.StatusUnauthorized)
	ErrNotFound           = NewAPIError(ErrCodeNotFound, "Resource not found", http.StatusNotFound)
	ErrConflict           = NewAPIError(ErrCodeConflict, "Resource already exists", http.StatusConflict)
	ErrRegistrationFailed = NewAPIError(ErrCodeRegistrationFailed, "Error registering user", http.StatusInternalServerError)
	ErrInvalidRequest     = NewAPIError(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest)
	ErrRateLimited        = NewAPIError(ErrCodeRateLimitExceeded, "Too many requests, please try again later.", http.StatusTooManyRequests)
	ErrInternalServer     = NewAPIError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError)
)

// FromError maps a domain error to its API error. Validation errors keep
// their message; everything unrecognized is an internal error.
func FromError(err error) *APIError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrValidation):
		return ErrInvalidRequest.WithMessage(err.Error())
	case errors.Is(err, errs.ErrUnauthenticated):
		return ErrUnauthenticated
	case errors.Is(err, errs.ErrForbidden):
		return ErrForbidden
	case errors.Is(err, errs.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, errs.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, errs.ErrRegistrationFailed):
		return ErrRegistrationFailed
	case errors.Is(err, errs.ErrAlreadyExists):
		return ErrConflict
	case errors.Is(err, errs.ErrRateLimited):
		return ErrRateLimited
	default:
		return ErrInternalServer
	}
}

// StatusFromError returns the HTTP status for err
func StatusFromError(err error) int {
	if apiErr := FromError(err); apiErr != nil {
		return apiErr.StatusCode
	}
	return http.StatusOK
}
