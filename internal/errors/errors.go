// Package errors provides a lightweight structured error type (BuilderError)
// for category-based classification across the resolution and assembly layers.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an envbuilder error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryNetwork  ErrorCategory = "network"
	CategoryGit      ErrorCategory = "git"
	CategoryDownload ErrorCategory = "download"

	// Environment assembly errors
	CategoryProject    ErrorCategory = "project"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops assembly
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// BuilderError is a structured error with category, retryability, and context
type BuilderError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BuilderError
type ContextFields map[string]any

// Error implements the error interface
func (e *BuilderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *BuilderError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BuilderError) WithContext(key string, value any) *BuilderError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new BuilderError
func New(category ErrorCategory, severity ErrorSeverity, message string) *BuilderError {
	return &BuilderError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new BuilderError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BuilderError {
	return &BuilderError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// WrapRetryable creates a new retryable BuilderError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *BuilderError {
	return &BuilderError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsFatal reports whether err is a BuilderError with fatal severity.
func IsFatal(err error) bool {
	var be *BuilderError
	return As(err, &be) && be.Severity == SeverityFatal
}

// IsCategory reports whether err is a BuilderError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var be *BuilderError
	return As(err, &be) && be.Category == category
}
