// Package gitsource reads registry snapshots out of a local git repository
// at arbitrary revisions, without touching the working tree.
package gitsource

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RevisionError indicates a revision that could not be resolved in the
// repository.
type RevisionError struct {
	Revision string
	Cause    error
}

// Error implements the error interface
func (e *RevisionError) Error() string {
	return fmt.Sprintf("cannot resolve revision %q: %v", e.Revision, e.Cause)
}

// Unwrap returns the underlying error
func (e *RevisionError) Unwrap() error {
	return e.Cause
}

// FileNotFoundError indicates a file missing from the tree of an otherwise
// valid commit.
type FileNotFoundError struct {
	Revision string
	Path     string
}

// Error implements the error interface
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %q not found at revision %q", e.Path, e.Revision)
}

// Source reads file snapshots from one git repository.
type Source struct {
	repo *git.Repository
}

// Open opens the git repository at path. The path may point anywhere
// inside the repository; discovery walks up to the enclosing .git.
func Open(path string) (*Source, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return &Source{repo: repo}, nil
}

// FileAt returns the content of path at the given revision. The revision
// may be a SHA, branch, tag, or any other rev-parse expression.
func (s *Source) FileAt(revision, path string) ([]byte, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, &RevisionError{Revision: revision, Cause: err}
	}

	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		return nil, &RevisionError{Revision: revision, Cause: err}
	}

	file, err := commit.File(path)
	if err != nil {
		if err == object.ErrFileNotFound {
			return nil, &FileNotFoundError{Revision: revision, Path: path}
		}
		return nil, fmt.Errorf("failed to read %s at %s: %w", path, revision, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", path, revision, err)
	}

	return []byte(content), nil
}
