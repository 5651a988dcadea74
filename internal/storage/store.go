// Package storage provides the file store scriptpack reads inputs from and writes outputs to.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Store is the readable/writable file abstraction used by the build driver.
// Paths are slash or OS separated and relative to the store root.
type Store interface {
	// ReadText reads a UTF-8 text file. A leading byte order mark is removed.
	// Missing, unreadable or non-UTF-8 files yield a read-category error.
	ReadText(ctx context.Context, name string) (string, error)

	// WriteFile fully replaces name with data. The write is atomic: data goes
	// to a temporary sibling first and is renamed over name, so a failure never
	// leaves a partial destination behind. Parent directories are created.
	WriteFile(ctx context.Context, name string, data []byte) error

	// EnsureDir creates dir and its parents. An existing directory is not an error.
	EnsureDir(ctx context.Context, dir string) error

	// Exists reports whether name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Root describes where the store is anchored (a directory or "memory").
	Root() string
}

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
