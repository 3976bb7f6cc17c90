package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/log"
	"github.com/maksimkurb/hostconf/src/internal/schema"
)

// ErrorCode represents standard API error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or invalid request data.
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeInternalError indicates an internal server error.
	ErrCodeInternalError ErrorCode = "internal_error"

	// ErrCodeValidationFailed indicates the submitted configuration failed validation.
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// ErrCodeSyntaxCheckFailed indicates the daemon's checker rejected the generated file.
	ErrCodeSyntaxCheckFailed ErrorCode = "syntax_check_failed"

	// ErrCodeServiceError indicates the service manager failed.
	ErrCodeServiceError ErrorCode = "service_error"

	// ErrCodeTimeout indicates an external process was killed after its time bound.
	ErrCodeTimeout ErrorCode = "timeout"
)

// APIError represents a structured API error response.
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError for JSON responses.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code ErrorCode, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
		Details: nil,
	}
}

// WithDetails adds details to an APIError.
func (e APIError) WithDetails(details map[string]interface{}) APIError {
	e.Details = details
	return e
}

// WriteError writes an error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, err APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if encErr := json.NewEncoder(w).Encode(ErrorResponse{Error: err}); encErr != nil {
		log.Warnf("Failed to encode error response: %v", encErr)
	}
}

// WriteInvalidRequest writes a 400 Bad Request error.
func WriteInvalidRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidRequest, message))
}

// WriteNotFound writes a 404 Not Found error.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, resource+" not found"))
}

// WriteInternalError writes a 500 Internal Server Error.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// statusFor maps a domain error code onto an HTTP status and an API error code.
func statusFor(code errors.ErrorCode) (int, ErrorCode) {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest, ErrCodeValidationFailed
	case errors.ErrCodeNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case errors.ErrCodeSyntaxCheck:
		return http.StatusUnprocessableEntity, ErrCodeSyntaxCheckFailed
	case errors.ErrCodeServiceControl:
		return http.StatusBadGateway, ErrCodeServiceError
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, ErrCodeTimeout
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// WriteDomainError writes err with the status its code maps to.
// The full error is logged; the response carries only the public message.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(errors.CodeOf(err))
	if status >= http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	}

	apiErr := NewAPIError(code, errors.PublicMessage(err))
	var diags schema.Diagnostics
	if stderrors.As(err, &diags) {
		apiErr = apiErr.WithDetails(map[string]interface{}{"diagnostics": diags})
	}
	WriteError(w, status, apiErr)
}
