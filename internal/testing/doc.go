// Package testing contains fixtures and assertions shared by package tests:
// a builder for on-disk documentation sites and file system assertions.
package testing

const (
	// testDirPermissions is the permission mode for creating test directories.
	testDirPermissions = 0o750

	// testFilePermissions is the permission mode for creating test files.
	testFilePermissions = 0o600
)
