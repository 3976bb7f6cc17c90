// Package errors provides domain-specific error types for hostconf.
//
// Every failure of an apply cycle is classified by an ErrorCode so the API layer
// can pick a status code and an outward-facing message without inspecting error
// strings.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a problem with the hostconf settings file.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeValidation indicates a user-correctable service configuration defect.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeGeneration indicates a generator could not render a validated model.
	// It is an internal invariant violation.
	ErrCodeGeneration ErrorCode = "GENERATION_ERROR"

	// ErrCodeIO indicates a filesystem or permission failure.
	ErrCodeIO ErrorCode = "IO_ERROR"

	// ErrCodeSyntaxCheck indicates the daemon's own checker rejected a staged file.
	ErrCodeSyntaxCheck ErrorCode = "SYNTAX_CHECK_FAILED"

	// ErrCodeServiceControl indicates the service manager failed or returned unparseable output.
	ErrCodeServiceControl ErrorCode = "SERVICE_CONTROL_ERROR"

	// ErrCodeTimeout indicates an external process exceeded its time bound and was killed.
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeNotFound indicates a requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a new settings error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewGenerationError creates a new generation error.
func NewGenerationError(message string, cause error) *Error {
	return Wrap(ErrCodeGeneration, message, cause)
}

// NewIOError creates a new filesystem error.
func NewIOError(message string, cause error) *Error {
	return Wrap(ErrCodeIO, message, cause)
}

// NewSyntaxCheckError creates a new syntax check error.
func NewSyntaxCheckError(message string, cause error) *Error {
	return Wrap(ErrCodeSyntaxCheck, message, cause)
}

// NewServiceControlError creates a new service control error.
func NewServiceControlError(message string, cause error) *Error {
	return Wrap(ErrCodeServiceControl, message, cause)
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(message string, cause error) *Error {
	return Wrap(ErrCodeTimeout, message, cause)
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(message string) *Error {
	return New(ErrCodeNotFound, message)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}

// CodeOf returns the code of the outermost domain error in err's chain,
// or ErrCodeInternal if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether any domain error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &Error{Code: code})
}

// PublicMessage returns a message that is safe to show outside the host.
// Filesystem errors never reveal their cause because it usually names a path.
func PublicMessage(err error) string {
	var e *Error
	if !stderrors.As(err, &e) {
		return "internal error"
	}
	switch e.Code {
	case ErrCodeIO:
		return "failed to write service configuration"
	case ErrCodeInternal, ErrCodeGeneration:
		return "internal error"
	case ErrCodeTimeout:
		return e.Message + ": timed out"
	default:
		return e.Message
	}
}
