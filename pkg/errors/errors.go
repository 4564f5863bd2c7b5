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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Toolchain errors
	ErrToolsMissing ErrorCode = "TOOLS_MISSING"

	// Capability scraping errors
	ErrScrapeExec   ErrorCode = "SCRAPE_EXEC"
	ErrScrapeFormat ErrorCode = "SCRAPE_FORMAT"

	// Template errors
	ErrTemplatePlaceholder ErrorCode = "TEMPLATE_PLACEHOLDER"
	ErrTemplateIterKey     ErrorCode = "TEMPLATE_ITER_KEY"
	ErrTemplateSyntax      ErrorCode = "TEMPLATE_SYNTAX"
	ErrTemplateInvalid     ErrorCode = "TEMPLATE_INVALID"

	// Install errors
	ErrInstall ErrorCode = "INSTALL"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// XavrError represents a structured error with code and details
type XavrError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *XavrError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *XavrError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *XavrError) Is(target error) bool {
	var targetErr *XavrError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

func newError(code ErrorCode, message string, wrapped error) *XavrError {
	return &XavrError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: wrapped,
	}
}

// New creates a new XavrError with the given code and message
func New(code ErrorCode, message string) *XavrError {
	return newError(code, message, nil)
}

// Newf creates a new XavrError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *XavrError {
	return newError(code, fmt.Sprintf(format, args...), nil)
}

// Wrap wraps err with a code and message. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *XavrError {
	if err == nil {
		return nil
	}
	return newError(code, message, err)
}

// Wrapf wraps err with a code and formatted message. A nil err stays nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *XavrError {
	if err == nil {
		return nil
	}
	return newError(code, fmt.Sprintf(format, args...), err)
}

// WithDetail adds a detail to the error
func (e *XavrError) WithDetail(key string, value interface{}) *XavrError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var xerr *XavrError
	if errors.As(err, &xerr) {
		return xerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a XavrError
func GetErrorCode(err error) ErrorCode {
	var xerr *XavrError
	if errors.As(err, &xerr) {
		return xerr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a XavrError
func GetErrorDetails(err error) map[string]interface{} {
	var xerr *XavrError
	if errors.As(err, &xerr) {
		return xerr.Details
	}
	return nil
}
