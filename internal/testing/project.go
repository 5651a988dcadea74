package testing

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scriptpack/internal/config"
)

// ConfigFileName is the configuration file written into every Project.
const ConfigFileName = "scriptpack.yaml"

// Project is a scratch project directory. Paths given to its methods are
// slash-separated and relative to Dir.
type Project struct {
	t   *testing.T
	Dir string
}

// NewProject creates an empty project in a temporary directory.
func NewProject(t *testing.T) *Project {
	t.Helper()
	return &Project{t: t, Dir: t.TempDir()}
}

// ConfigPath is the absolute path of the project's configuration file.
func (p *Project) ConfigPath() string {
	return p.Path(ConfigFileName)
}

// Path resolves rel against the project directory.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(rel))
}

// WithConfig saves the builder's configuration as the project configuration.
func (p *Project) WithConfig(cb *ConfigBuilder) *Project {
	p.t.Helper()
	cb.BuildAndSave(p.ConfigPath())
	return p
}

// WriteFile creates or replaces rel with content, creating parent directories.
func (p *Project) WriteFile(rel, content string) *Project {
	p.t.Helper()
	writeFile(p.t, p.Path(rel), []byte(content))
	return p
}

// ReadFile returns the content of rel, failing the test when it cannot be read.
func (p *Project) ReadFile(rel string) string {
	p.t.Helper()
	data, err := os.ReadFile(p.Path(rel))
	require.NoError(p.t, err, "read %s", rel)
	return string(data)
}

// Remove deletes rel and everything below it.
func (p *Project) Remove(rel string) *Project {
	p.t.Helper()
	require.NoError(p.t, os.RemoveAll(p.Path(rel)))
	return p
}

// CopyTree copies the files under src into the project, skipping .git.
func (p *Project) CopyTree(src string) *Project {
	p.t.Helper()
	require.NoError(p.t, copyDir(src, p.Dir), "copy %s", src)
	return p
}

// Load reads the project configuration through config.Load.
func (p *Project) Load() *config.Config {
	p.t.Helper()
	cfg, err := config.Load(p.ConfigPath())
	require.NoError(p.t, err, "load project configuration")
	return cfg
}

// Files returns assertions rooted at the project directory.
func (p *Project) Files() *FileAssertions {
	return NewFileAssertions(p.t, p.Dir)
}

// InitRepo turns the project into a git repository with one commit holding
// every file, and returns the commit hash.
func (p *Project) InitRepo() string {
	p.t.Helper()

	repo, err := git.PlainInit(p.Dir, false)
	require.NoError(p.t, err, "initialize git repo")

	w, err := repo.Worktree()
	require.NoError(p.t, err, "open worktree")
	require.NoError(p.t, w.AddGlob("."), "stage files")

	hash, err := w.Commit("Initial test commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(p.t, err, "create initial commit")
	return hash.String()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), testDirPermissions))
	require.NoError(t, os.WriteFile(path, data, testFilePermissions))
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		if relPath == ".git" || strings.HasPrefix(relPath, ".git"+string(filepath.Separator)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		targetPath := filepath.Join(dst, relPath)
		if info.IsDir() {
			return os.MkdirAll(targetPath, testDirPermissions)
		}
		return copyFile(path, targetPath)
	})
}

func copyFile(src, dst string) error {
	// #nosec G304 -- test utility with paths from test setup, not user input
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G304 -- test utility with paths from test setup, not user input
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, testFilePermissions)
	if err != nil {
		return err
	}
	defer func() { _ = dstFile.Close() }()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
