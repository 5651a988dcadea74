package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

func commitFile(t *testing.T, repo *git.Repository, root, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(name)
	require.NoError(t, err)

	hash, err := w.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestReadRevision(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	hash := commitFile(t, repo, root, "a.js", "var a = 1;\n")

	sub := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	rev, err := ReadRevision(sub)
	require.NoError(t, err)
	assert.Equal(t, hash, rev.Hash)
	assert.Equal(t, hash[:ShortHashLen], rev.Short())
	assert.NotEmpty(t, rev.Branch)
}

func TestReadRevisionEmptyRepository(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)

	rev, err := ReadRevision(root)
	require.NoError(t, err)
	assert.Empty(t, rev.Hash)
	assert.Empty(t, rev.Short())
}

func TestReadRevisionNotARepository(t *testing.T) {
	_, err := ReadRevision(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
}
