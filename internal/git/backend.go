package git

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ErrNotRepository is returned by an Opener when the path is not a repository
var ErrNotRepository = errors.New("not a git repository")

// Branch is a local branch and the remote-tracking ref it follows
type Branch struct {
	Name     string
	Ref      plumbing.ReferenceName
	Upstream plumbing.ReferenceName // empty when no upstream is configured
}

// HasUpstream reports whether the branch tracks another ref
func (b Branch) HasUpstream() bool {
	return b.Upstream != ""
}

// Repository is the read-only view of a repository the prober needs
type Repository interface {
	IsBare() bool
	Status() ([]FileStatus, error)
	CurrentBranch() (string, bool)
	LocalBranches() ([]Branch, error)
	ResolveCommit(ref plumbing.ReferenceName) (plumbing.Hash, error)
	IsDescendant(commit, ancestor plumbing.Hash) (bool, error)
}

// Opener opens the repository rooted exactly at path
type Opener func(path string) (Repository, error)

// ExcludePatterns reads the user's global and system ignore patterns.
// go-git only reads the repository's own ignore files, so these are loaded
// once per scan and handed to every opened repository.
func ExcludePatterns() []gitignore.Pattern {
	fs := osfs.New(string(os.PathSeparator))

	var patterns []gitignore.Pattern
	if global, err := gitignore.LoadGlobalPatterns(fs); err == nil {
		patterns = append(patterns, global...)
	}
	if system, err := gitignore.LoadSystemPatterns(fs); err == nil {
		patterns = append(patterns, system...)
	}
	return patterns
}

// NewOpener returns an Opener whose repositories apply excludes on top of
// their own ignore files
func NewOpener(excludes []gitignore.Pattern) Opener {
	return func(path string) (Repository, error) {
		repo, err := gogit.PlainOpen(path)
		if err != nil {
			if errors.Is(err, gogit.ErrRepositoryNotExists) {
				return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
			}
			return nil, fmt.Errorf("opening repository at %s: %w", path, err)
		}
		return &goGitRepository{repo: repo, excludes: excludes}, nil
	}
}

// OpenRepository opens path with go-git. The working tree must live at path
// itself: parent directories are not searched.
func OpenRepository(path string) (Repository, error) {
	return NewOpener(ExcludePatterns())(path)
}

type goGitRepository struct {
	repo     *gogit.Repository
	excludes []gitignore.Pattern
}

func (r *goGitRepository) IsBare() bool {
	_, err := r.repo.Worktree()
	return errors.Is(err, gogit.ErrIsBareRepository)
}

// Status lists changed paths. Ignored files are left out and submodule paths
// are dropped. Untracked files are included, folded into the shallowest
// untracked directory holding them the way git status shows them.
func (r *goGitRepository) Status() ([]FileStatus, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	wt.Excludes = append(wt.Excludes, r.excludes...)

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	submodules := make(map[string]struct{})
	if subs, err := wt.Submodules(); err == nil {
		for _, sub := range subs {
			submodules[sub.Config().Path] = struct{}{}
		}
	}

	tracked, err := r.trackedDirs()
	if err != nil {
		return nil, err
	}

	entries := make([]FileStatus, 0, len(status))
	untrackedDirs := make(map[string]struct{})
	for name, fileStatus := range status {
		if _, ok := submodules[name]; ok {
			continue
		}
		if fileStatus.Staging == gogit.Untracked && fileStatus.Worktree == gogit.Untracked {
			if dir, ok := untrackedRoot(name, tracked); ok {
				if _, seen := untrackedDirs[dir]; !seen {
					untrackedDirs[dir] = struct{}{}
					entries = append(entries, FileStatus{Path: dir, Flags: WorktreeNew})
				}
				continue
			}
		}
		entries = append(entries, FileStatus{
			Path:  name,
			Flags: flagsFromGoGit(fileStatus.Staging, fileStatus.Worktree),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// trackedDirs returns every directory that holds an indexed path
func (r *goGitRepository) trackedDirs() (map[string]struct{}, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	dirs := make(map[string]struct{})
	for _, entry := range idx.Entries {
		for dir := path.Dir(entry.Name); dir != "."; dir = path.Dir(dir) {
			if _, ok := dirs[dir]; ok {
				break
			}
			dirs[dir] = struct{}{}
		}
	}
	return dirs, nil
}

// untrackedRoot returns the shallowest directory of file, with a trailing
// slash, that holds no tracked path. It reports false when file sits
// directly in a tracked directory.
func untrackedRoot(file string, tracked map[string]struct{}) (string, bool) {
	dir := ""
	rest := file
	for {
		name, tail, found := strings.Cut(rest, "/")
		if !found {
			return "", false
		}
		dir = path.Join(dir, name)
		if _, ok := tracked[dir]; !ok {
			return dir + "/", true
		}
		rest = tail
	}
}

// CurrentBranch returns the short name of HEAD. Detached and unborn HEADs
// report false.
func (r *goGitRepository) CurrentBranch() (string, bool) {
	head, err := r.repo.Head()
	if err != nil {
		return "", false
	}
	if !head.Name().IsBranch() {
		return "", false
	}
	return head.Name().Short(), true
}

// LocalBranches lists refs/heads sorted by name. An upstream is only reported
// when the ref it points at exists locally.
func (r *goGitRepository) LocalBranches() ([]Branch, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	iter, err := r.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	defer iter.Close()

	var branches []Branch
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branch := Branch{
			Name: ref.Name().Short(),
			Ref:  ref.Name(),
		}
		if bc, ok := cfg.Branches[branch.Name]; ok && bc.Merge != "" && bc.Remote != "" {
			upstream := plumbing.NewRemoteReferenceName(bc.Remote, bc.Merge.Short())
			if bc.Remote == "." {
				upstream = bc.Merge
			}
			if _, err := r.repo.Reference(upstream, true); err == nil {
				branch.Upstream = upstream
			}
		}
		branches = append(branches, branch)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

func (r *goGitRepository) ResolveCommit(ref plumbing.ReferenceName) (plumbing.Hash, error) {
	resolved, err := r.repo.Reference(ref, true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %s: %w", ref, err)
	}
	commit, err := r.repo.CommitObject(resolved.Hash())
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %s commit: %w", ref, err)
	}
	return commit.Hash, nil
}

// IsDescendant reports whether commit is strictly ahead of ancestor. Equal
// commits are not descendants of each other.
func (r *goGitRepository) IsDescendant(commit, ancestor plumbing.Hash) (bool, error) {
	if commit == ancestor {
		return false, nil
	}
	tip, err := r.repo.CommitObject(commit)
	if err != nil {
		return false, fmt.Errorf("loading commit %s: %w", commit, err)
	}
	base, err := r.repo.CommitObject(ancestor)
	if err != nil {
		return false, fmt.Errorf("loading commit %s: %w", ancestor, err)
	}
	return base.IsAncestor(tip)
}
