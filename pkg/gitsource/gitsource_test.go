package gitsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a repository with two commits of repo-list.yaml and
// returns the repo path plus both commit SHAs.
func initTestRepo(t *testing.T) (path, firstSHA, secondSHA string) {
	t.Helper()

	path = t.TempDir()
	repo, err := git.PlainInit(path, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(content string) string {
		err := os.WriteFile(filepath.Join(path, "repo-list.yaml"), []byte(content), 0644)
		require.NoError(t, err)
		_, err = wt.Add("repo-list.yaml")
		require.NoError(t, err)
		hash, err := wt.Commit("update repo list", &git.CommitOptions{
			Author: &object.Signature{
				Name:  "test",
				Email: "test@example.com",
				When:  time.Now(),
			},
		})
		require.NoError(t, err)
		return hash.String()
	}

	firstSHA = commit("repos:\n  - repo_url: https://github.com/org/alpha\n")
	secondSHA = commit("repos:\n  - repo_url: https://github.com/org/alpha\n  - repo_url: https://github.com/org/bravo\n")
	return path, firstSHA, secondSHA
}

func TestFileAt(t *testing.T) {
	path, firstSHA, secondSHA := initTestRepo(t)

	source, err := Open(path)
	require.NoError(t, err)

	first, err := source.FileAt(firstSHA, "repo-list.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(first), "org/alpha")
	assert.NotContains(t, string(first), "org/bravo")

	second, err := source.FileAt(secondSHA, "repo-list.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(second), "org/bravo")
}

func TestFileAtSymbolicRevision(t *testing.T) {
	path, firstSHA, _ := initTestRepo(t)

	source, err := Open(path)
	require.NoError(t, err)

	content, err := source.FileAt("HEAD~1", "repo-list.yaml")
	require.NoError(t, err)

	direct, err := source.FileAt(firstSHA, "repo-list.yaml")
	require.NoError(t, err)
	assert.Equal(t, direct, content)
}

func TestFileAtBadRevision(t *testing.T) {
	path, _, _ := initTestRepo(t)

	source, err := Open(path)
	require.NoError(t, err)

	_, err = source.FileAt("0000000000000000000000000000000000000000", "repo-list.yaml")
	var revErr *RevisionError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, "0000000000000000000000000000000000000000", revErr.Revision)
}

func TestFileAtMissingFile(t *testing.T) {
	path, firstSHA, _ := initTestRepo(t)

	source, err := Open(path)
	require.NoError(t, err)

	_, err = source.FileAt(firstSHA, "does-not-exist.yaml")
	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "does-not-exist.yaml", notFound.Path)
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
