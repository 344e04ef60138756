// Package errors provides a lightweight structured error type (SitegenError)
// for category-based classification across the content pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a sitegen error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Content resolution errors
	CategoryContent ErrorCategory = "content"
	CategoryQuery   ErrorCategory = "query"
	CategoryRender  ErrorCategory = "render"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategorySource     ErrorCategory = "source"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// SitegenError is a structured error with category, severity, and context
type SitegenError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SitegenError
type ContextFields map[string]any

// Error implements the error interface
func (e *SitegenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SitegenError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SitegenError) WithContext(key string, value any) *SitegenError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new SitegenError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SitegenError {
	return &SitegenError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SitegenError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SitegenError {
	return &SitegenError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := err.(*SitegenError); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a SitegenError
func GetCategory(err error) ErrorCategory {
	if se, ok := err.(*SitegenError); ok {
		return se.Category
	}
	return CategoryInternal
}
