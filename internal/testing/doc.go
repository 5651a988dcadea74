// Package testing contains helpers for tests that drive scriptpack against
// real project directories: scratch projects, configuration builders, file
// assertions and an in-process CLI runner.
package testing

const (
	// testDirPermissions is the permission mode for creating test directories.
	testDirPermissions = 0o750

	// testFilePermissions is the permission mode for creating test files.
	testFilePermissions = 0o600
)
