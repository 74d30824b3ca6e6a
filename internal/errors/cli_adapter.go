package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var se *SiteError
	if stderrors.As(err, &se) {
		return a.exitCodeFromSiteError(se)
	}

	return 1
}

// exitCodeFromSiteError maps SiteError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromSiteError(err *SiteError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryFileSystem, CategoryRender:
		return 11 // Compile error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var se *SiteError
	if stderrors.As(err, &se) {
		return a.formatSiteError(se)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatSiteError(err *SiteError) string {
	if a.verbose {
		return err.Error()
	}

	msg := err.Message
	if p, ok := err.Context["path"]; ok {
		msg = fmt.Sprintf("%s: %v", msg, p)
	}
	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return msg
	default:
		return fmt.Sprintf("%s: %s", err.Category, msg)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(a.out, "%s\n", message)
	a.exit(exitCode)
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	var se *SiteError
	if stderrors.As(err, &se) {
		return se.Category == CategoryInternal ||
			se.Category == CategoryRuntime ||
			se.Severity == SeverityFatal
	}

	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	var se *SiteError
	if stderrors.As(err, &se) {
		attrs := []slog.Attr{slog.String("category", string(se.Category))}
		for k, v := range se.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if se.Cause != nil {
			attrs = append(attrs, slog.String("cause", se.Cause.Error()))
		}
		a.logger.LogAttrs(context.Background(), a.slogLevel(se.Severity), se.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func (a *CLIErrorAdapter) slogLevel(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
