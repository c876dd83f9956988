// internal/core/errors.go
package core

import (
	"errors"
	"fmt"
)

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
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

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Errorf wraps a formatted cause in base.
func Errorf(base *Error, format string, args ...any) *Error {
	return WrapError(base, fmt.Errorf(format, args...))
}

// Predefined errors
var (
	// Indicator input errors, detected before any computation starts
	ErrInvalidParameter = &Error{Code: "INVALID_PARAMETER", Message: "invalid indicator parameter"}
	ErrShapeMismatch    = &Error{Code: "SHAPE_MISMATCH", Message: "input series lengths differ"}
	ErrEmptyInput       = &Error{Code: "EMPTY_INPUT", Message: "input series is empty"}

	// Study errors
	ErrUnknownStudy = &Error{Code: "UNKNOWN_STUDY", Message: "study not registered"}
	ErrNoData       = &Error{Code: "NO_DATA", Message: "no data available"}

	// Codec errors
	ErrDecodeFailed = &Error{Code: "DECODE_FAILED", Message: "failed to decode price series"}

	// Storage errors
	ErrStorageFailed  = &Error{Code: "STORAGE_FAILED", Message: "storage operation failed"}
	ErrResultNotFound = &Error{Code: "RESULT_NOT_FOUND", Message: "result not found"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)

// IsInputError reports whether err is one of the indicator input errors,
// i.e. a problem with the caller's data or parameters.
func IsInputError(err error) bool {
	for _, target := range []*Error{ErrInvalidParameter, ErrShapeMismatch, ErrEmptyInput, ErrDecodeFailed, ErrNoData} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
