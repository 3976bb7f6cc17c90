package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeValidation, Message: "invalid configuration"},
			expected: "[VALIDATION_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeIO, "failed to stage file", errors.New("permission denied")),
			expected: "[IO_ERROR] failed to stage file: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeSyntaxCheck, Message: "test error"}
	err2 := &Error{Code: ErrCodeSyntaxCheck, Message: "another error"}
	err3 := &Error{Code: ErrCodeIO, Message: "io error"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", NewTimeoutError("syntax check", nil))

	if got := CodeOf(wrapped); got != ErrCodeTimeout {
		t.Errorf("CodeOf() = %v, want %v", got, ErrCodeTimeout)
	}
	if got := CodeOf(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf() = %v, want %v", got, ErrCodeInternal)
	}
	if !HasCode(wrapped, ErrCodeTimeout) {
		t.Error("expected HasCode to find the timeout code")
	}
}

func TestPublicMessage_WithholdsPaths(t *testing.T) {
	err := NewIOError("failed to write /etc/bind/named.conf", errors.New("open /etc/bind/.named.conf.tmp: permission denied"))

	msg := PublicMessage(err)
	if strings.Contains(msg, "/etc") {
		t.Errorf("PublicMessage() leaked a path: %q", msg)
	}

	if got := PublicMessage(NewServiceControlError("reload failed", nil)); got != "reload failed" {
		t.Errorf("PublicMessage() = %q, want %q", got, "reload failed")
	}
}
