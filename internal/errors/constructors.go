package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotReadable(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file could not be read").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// RootNotFound reports a missing docs or template root. It aborts a compile before any writes.
func RootNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "root directory not found").
		WithKind(ErrRootNotFound).
		WithContext("path", path)
}

// Compile errors

// FileSystem wraps a read/write/mkdir/remove failure.
func FileSystem(operation, path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithKind(ErrFileSystem).
		WithContext("operation", operation).
		WithContext("path", path)
}

// AssetDirectoryMissing is a non-fatal notice that an asset source was skipped.
func AssetDirectoryMissing(path string) *SiteError {
	return New(CategoryFileSystem, SeverityWarning, "asset directory missing").
		WithKind(ErrAssetDirectoryMissing).
		WithContext("path", path)
}

func DuplicateRoute(endpoint, first, second string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "duplicate route endpoint").
		WithKind(ErrDuplicateRoute).
		WithContext("endpoint", endpoint).
		WithContext("first", first).
		WithContext("second", second)
}

func RenderFailed(endpoint string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityFatal, "render failed").
		WithKind(ErrRenderFailed).
		WithContext("endpoint", endpoint)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
