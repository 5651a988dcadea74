package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// FileAssertions checks generated files below a base directory.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// AssertFileExists validates that a regular file exists.
func (fa *FileAssertions) AssertFileExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.FileExists(fa.t, fa.path(rel))
	return fa
}

// AssertFileNotExists validates that nothing exists at rel.
func (fa *FileAssertions) AssertFileNotExists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoFileExists(fa.t, fa.path(rel))
	return fa
}

// AssertFileContains validates that the file contains expected.
func (fa *FileAssertions) AssertFileContains(rel, expected string) *FileAssertions {
	fa.t.Helper()
	if content, ok := fa.read(rel); ok {
		assert.Contains(fa.t, content, expected, "file %s", rel)
	}
	return fa
}

// AssertFileNotContains validates that the file does not contain unexpected.
func (fa *FileAssertions) AssertFileNotContains(rel, unexpected string) *FileAssertions {
	fa.t.Helper()
	if content, ok := fa.read(rel); ok {
		assert.NotContains(fa.t, content, unexpected, "file %s", rel)
	}
	return fa
}

// AssertFileEquals validates the exact content of the file.
func (fa *FileAssertions) AssertFileEquals(rel, expected string) *FileAssertions {
	fa.t.Helper()
	if content, ok := fa.read(rel); ok {
		assert.Equal(fa.t, expected, content, "file %s", rel)
	}
	return fa
}

// ListFiles returns the sorted names of regular files directly under rel.
func (fa *FileAssertions) ListFiles(rel string) []string {
	fa.t.Helper()
	entries, err := os.ReadDir(fa.path(rel))
	if err != nil {
		fa.t.Logf("Failed to read directory %s: %v", rel, err)
		return nil
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files
}

func (fa *FileAssertions) read(rel string) (string, bool) {
	fa.t.Helper()
	data, err := os.ReadFile(fa.path(rel))
	if !assert.NoError(fa.t, err, "read %s", rel) {
		return "", false
	}
	return string(data), true
}
