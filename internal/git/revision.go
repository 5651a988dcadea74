package git

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/scriptpack/internal/foundation/errors"
)

// ShortHashLen is the number of hex characters kept in a short revision.
const ShortHashLen = 7

// Revision describes the HEAD commit of a repository.
type Revision struct {
	Hash string
	// Branch is empty when HEAD is detached.
	Branch string
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Hash) <= ShortHashLen {
		return r.Hash
	}
	return r.Hash[:ShortHashLen]
}

// ReadRevision opens the repository containing path (searching parent
// directories for .git) and resolves HEAD.
//
// A repository without commits yields a zero Revision and no error.
func ReadRevision(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Revision{}, errors.WrapError(err, errors.CategoryGit, "open repository").
			WithContext("path", path).
			Build()
	}

	head, err := repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, nil
		}
		return Revision{}, errors.WrapError(err, errors.CategoryGit, "resolve HEAD").
			WithContext("path", path).
			Build()
	}

	rev := Revision{Hash: head.Hash().String()}
	if head.Name().IsBranch() {
		rev.Branch = head.Name().Short()
	}
	return rev, nil
}
