package errors

import (
	"fmt"
	"strings"
)

// ChassisError defines the base interface for all generation-time errors
type ChassisError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	// Core error types
	UnknownErrorCode ErrorCode = iota
	SyntaxErrorCode
	ValidationErrorCode

	// Extraction and synthesis error types
	UnsupportedReturnShapeCode
	MissingConstructorCode
	UnresolvableDependencyCode
	NamingCollisionCode
	AmbiguousRoleCode

	// Emission error types
	GenerationErrorCode
	TemplateErrorCode
	FileSystemErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case UnsupportedReturnShapeCode:
		return "UnsupportedReturnShape"
	case MissingConstructorCode:
		return "MissingUsableConstructor"
	case UnresolvableDependencyCode:
		return "UnresolvableDependencyType"
	case NamingCollisionCode:
		return "NamingCollision"
	case AmbiguousRoleCode:
		return "AmbiguousRole"
	case GenerationErrorCode:
		return "GenerationError"
	case TemplateErrorCode:
		return "TemplateError"
	case FileSystemErrorCode:
		return "FileSystemError"
	default:
		return "UnknownError"
	}
}

// SourceLocation represents where an error occurred in source code
type SourceLocation struct {
	File string // file path where error occurred
	Line int    // line number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// IsEmpty returns true if the location has no useful information
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError provides a common implementation of the ChassisError interface
type BaseError struct {
	Code    ErrorCode
	Message string
	Loc     SourceLocation
	Cause   error
	Hints   []string // helpful suggestions for fixing the error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Loc.IsEmpty() {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc, e.Code, e.Message)
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Location returns the source location where the error occurred
func (e *BaseError) Location() SourceLocation {
	return e.Loc
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithLocation adds location information to the error
func (e *BaseError) WithLocation(file string, line int) *BaseError {
	e.Loc = SourceLocation{File: file, Line: line}
	return e
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// DiagnosticList collects per-unit errors so one malformed declaration never
// aborts unrelated units. Non-fatal diagnostics are reported together at the
// end of a generation run.
type DiagnosticList struct {
	Errors []ChassisError
}

// NewDiagnosticList creates an empty diagnostic collection
func NewDiagnosticList() *DiagnosticList {
	return &DiagnosticList{}
}

// Add adds an error to the collection. Nil errors are ignored.
func (d *DiagnosticList) Add(err ChassisError) {
	if err != nil {
		d.Errors = append(d.Errors, err)
	}
}

// Merge appends all diagnostics from another list
func (d *DiagnosticList) Merge(other *DiagnosticList) {
	if other != nil {
		d.Errors = append(d.Errors, other.Errors...)
	}
}

// IsEmpty returns true if there are no errors
func (d *DiagnosticList) IsEmpty() bool {
	return len(d.Errors) == 0
}

// Count returns the number of errors
func (d *DiagnosticList) Count() int {
	return len(d.Errors)
}

// HasCode returns true if any error of the specified type exists
func (d *DiagnosticList) HasCode(code ErrorCode) bool {
	for _, err := range d.Errors {
		if err.ErrorCode() == code {
			return true
		}
	}
	return false
}

// GetByCode returns all errors of a specific type
func (d *DiagnosticList) GetByCode(code ErrorCode) []ChassisError {
	var result []ChassisError
	for _, err := range d.Errors {
		if err.ErrorCode() == code {
			result = append(result, err)
		}
	}
	return result
}

// Error implements the error interface
func (d *DiagnosticList) Error() string {
	if len(d.Errors) == 0 {
		return "no errors"
	}
	if len(d.Errors) == 1 {
		return d.Errors[0].Error()
	}

	var messages []string
	for i, err := range d.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return fmt.Sprintf("%d diagnostics:\n%s", len(d.Errors), strings.Join(messages, "\n"))
}

// Unwrap returns the first underlying error for error inspection
func (d *DiagnosticList) Unwrap() error {
	if len(d.Errors) == 0 {
		return nil
	}
	return d.Errors[0]
}
