package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// newTestRepoOnDisk creates a repository on branch main in dir with one
// committed README.
func newTestRepoOnDisk(t *testing.T, dir string) *gogit.Repository {
	t.Helper()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err, "init test repo")

	commitFile(t, repo, dir, "README.md", "# Test Repo\n")
	return repo
}

// commitFile writes name under dir, stages it and commits it on HEAD
func commitFile(t *testing.T, repo *gogit.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()

	writeFile(t, dir, name, content)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("update "+name, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func headHash(t *testing.T, repo *gogit.Repository) plumbing.Hash {
	t.Helper()

	head, err := repo.Head()
	require.NoError(t, err)
	return head.Hash()
}

// createBranch points a new local branch at hash without checking it out
func createBranch(t *testing.T, repo *gogit.Repository, name string, hash plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	require.NoError(t, repo.Storer.SetReference(ref))
}

// setUpstream makes branch track origin/<branch> and points that
// remote-tracking ref at hash.
func setUpstream(t *testing.T, repo *gogit.Repository, branch string, hash plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", branch), hash)
	require.NoError(t, repo.Storer.SetReference(ref))
	configureUpstream(t, repo, branch)
}

// configureUpstream writes the branch tracking config only
func configureUpstream(t *testing.T, repo *gogit.Repository, branch string) {
	t.Helper()

	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName(branch),
	}
	require.NoError(t, repo.SetConfig(cfg))
}
