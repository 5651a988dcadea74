package storage

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/text/encoding/unicode"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

const dirMode = 0o755

// BillyStore implements Store on top of a go-billy filesystem. It backs real
// builds with osfs and tests with memfs.
type BillyStore struct {
	fs   billy.Filesystem
	root string
}

// NewOSStore anchors a store at root on the local filesystem. Paths that
// escape root are rejected.
func NewOSStore(root string) *BillyStore {
	return NewBillyStore(osfs.New(root), root)
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *BillyStore {
	return NewBillyStore(memfs.New(), "memory")
}

// NewBillyStore wraps an arbitrary billy filesystem.
func NewBillyStore(fsys billy.Filesystem, root string) *BillyStore {
	return &BillyStore{fs: fsys, root: root}
}

func (s *BillyStore) Root() string { return s.root }

func (s *BillyStore) ReadText(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := s.fs.Open(name)
	if err != nil {
		msg := "open input"
		if stderrors.Is(err, fs.ErrNotExist) {
			msg = "input not found"
		}
		return "", errors.WrapError(err, errors.CategoryRead, msg).Fatal().WithContext("path", name).Build()
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRead, "read input").Fatal().WithContext("path", name).Build()
	}
	if !utf8.Valid(data) {
		return "", errors.ReadError("input is not valid UTF-8 text").WithContext("path", name).Build()
	}

	text, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRead, "decode input").Fatal().WithContext("path", name).Build()
	}
	return string(text), nil
}

func (s *BillyStore) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(name)
	if err := s.fs.MkdirAll(dir, dirMode); err != nil {
		return errors.WriteError("create directory").WithCause(err).WithContext("path", dir).Build()
	}

	tmp, err := s.fs.TempFile(dir, "."+filepath.Base(name)+".tmp-")
	if err != nil {
		return errors.WriteError("create temporary file").WithCause(err).WithContext("path", name).Build()
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = s.fs.Remove(tmpName)
		return errors.WriteError("write output").WithCause(werr).WithContext("path", name).Build()
	}

	if err := s.fs.Rename(tmpName, name); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.WriteError("replace output").WithCause(err).WithContext("path", name).Build()
	}
	return nil
}

func (s *BillyStore) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(dir, dirMode); err != nil {
		return errors.WriteError("create directory").WithCause(err).WithContext("path", dir).Build()
	}
	return nil
}

func (s *BillyStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := s.fs.Stat(name)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.WrapError(err, errors.CategoryRead, "stat").WithContext("path", name).Build()
}
