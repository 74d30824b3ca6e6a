// Package errors provides a lightweight structured error type (SiteError)
// for category-based classification of compile failures in the CLI and dev server.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a site error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Compile and processing errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRender     ErrorCategory = "render"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Sentinel kinds. A SiteError matches its kind with errors.Is.
var (
	// ErrRootNotFound indicates a configured docs or template root is missing.
	ErrRootNotFound = stderrors.New("root not found")

	// ErrFileSystem indicates a read, write, mkdir or remove failure.
	ErrFileSystem = stderrors.New("filesystem error")

	// ErrAssetDirectoryMissing indicates a configured asset subdirectory does not exist.
	ErrAssetDirectoryMissing = stderrors.New("asset directory missing")

	// ErrDuplicateRoute indicates two documents normalize to the same endpoint.
	ErrDuplicateRoute = stderrors.New("duplicate route")

	// ErrRenderFailed indicates Markdown conversion or template execution failed.
	ErrRenderFailed = stderrors.New("render failed")
)

// SiteError is a structured error with category, severity, kind and context
type SiteError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Kind     error         `json:"-"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SiteError
type ContextFields map[string]any

// Error implements the error interface
func (e *SiteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel kind of this error.
func (e *SiteError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// WithContext adds context information to the error
func (e *SiteError) WithContext(key string, value any) *SiteError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithKind tags the error with a sentinel kind.
func (e *SiteError) WithKind(kind error) *SiteError {
	e.Kind = kind
	return e
}

// New creates a new SiteError
func New(category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new SiteError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SiteError {
	return &SiteError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var se *SiteError
	if stderrors.As(err, &se) {
		return se.Category == category
	}
	return false
}

// IsFatal reports whether err is a fatal SiteError. Unclassified errors count as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var se *SiteError
	if stderrors.As(err, &se) {
		return se.Severity == SeverityFatal
	}
	return true
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a SiteError
func GetCategory(err error) ErrorCategory {
	var se *SiteError
	if stderrors.As(err, &se) {
		return se.Category
	}
	return CategoryInternal
}
