package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Setup errors. A missing mod root is the only condition that
	// aborts a run.
	ErrModsRootMissing ErrorCode = "MODS_ROOT_MISSING"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Per-file errors. These are logged and the file skipped; they
	// never abort a run.
	ErrFileIO  ErrorCode = "FILE_IO"
	ErrHash    ErrorCode = "HASH"
	ErrMove    ErrorCode = "MOVE"
	ErrExtract ErrorCode = "EXTRACT_FAILED"
	ErrBackup  ErrorCode = "BACKUP"
	ErrReport  ErrorCode = "REPORT_WRITE"

	// Network errors. Treated as "no update available".
	ErrNetwork ErrorCode = "NETWORK"
)

// ModtidyError represents a structured error with code and details
type ModtidyError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ModtidyError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ModtidyError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ModtidyError) Is(target error) bool {
	var targetErr *ModtidyError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModtidyError with the given code and message
func New(code ErrorCode, message string) *ModtidyError {
	return &ModtidyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModtidyError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModtidyError {
	return &ModtidyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ModtidyError
func Wrap(err error, code ErrorCode, message string) *ModtidyError {
	if err == nil {
		return nil
	}
	return &ModtidyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModtidyError {
	if err == nil {
		return nil
	}
	return &ModtidyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ModtidyError) WithDetail(key string, value interface{}) *ModtidyError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mtErr *ModtidyError
	if errors.As(err, &mtErr) {
		return mtErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown
// if not a ModtidyError
func GetErrorCode(err error) ErrorCode {
	var mtErr *ModtidyError
	if errors.As(err, &mtErr) {
		return mtErr.Code
	}
	return ErrUnknown
}
