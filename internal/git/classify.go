package git

import (
	gogit "github.com/go-git/go-git/v5"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

// StatusFlag is a bit set describing how a single path differs from HEAD
type StatusFlag uint16

const (
	IndexNew StatusFlag = 1 << iota
	IndexModified
	IndexDeleted
	IndexRenamed
	IndexTypeChange
	WorktreeNew
	WorktreeModified
	WorktreeDeleted
	WorktreeRenamed
	WorktreeTypeChange
	Conflicted
)

const (
	newFlags      = IndexNew | WorktreeNew
	modifiedFlags = IndexModified | WorktreeModified | IndexRenamed | WorktreeRenamed |
		IndexTypeChange | WorktreeTypeChange | Conflicted
	deletedFlags = IndexDeleted | WorktreeDeleted
)

// FileStatus is the status of one path in the working tree
type FileStatus struct {
	Path  string
	Flags StatusFlag
}

// Unchanged reports whether no flag is set
func (f FileStatus) Unchanged() bool {
	return f.Flags == 0
}

// Classify folds path statuses into a change summary. Each path lands in
// exactly one bucket, checked in the order new, modified, deleted.
func Classify(entries []FileStatus) types.ChangeSummary {
	var changes types.ChangeSummary
	for _, entry := range entries {
		switch {
		case entry.Unchanged():
		case entry.Flags&newFlags != 0:
			changes.New++
		case entry.Flags&modifiedFlags != 0:
			changes.Modified++
		case entry.Flags&deletedFlags != 0:
			changes.Deleted++
		}
	}
	return changes
}

func flagsFromGoGit(staging, worktree gogit.StatusCode) StatusFlag {
	var flags StatusFlag

	switch staging {
	case gogit.Added, gogit.Copied:
		flags |= IndexNew
	case gogit.Modified:
		flags |= IndexModified
	case gogit.Deleted:
		flags |= IndexDeleted
	case gogit.Renamed:
		flags |= IndexRenamed
	case gogit.UpdatedButUnmerged:
		flags |= Conflicted
	}

	switch worktree {
	case gogit.Untracked, gogit.Added, gogit.Copied:
		flags |= WorktreeNew
	case gogit.Modified:
		flags |= WorktreeModified
	case gogit.Deleted:
		flags |= WorktreeDeleted
	case gogit.Renamed:
		flags |= WorktreeRenamed
	case gogit.UpdatedButUnmerged:
		flags |= Conflicted
	}

	return flags
}
