package git

import (
	"fmt"
)

// AnalyzeBranches splits local branches into those strictly ahead of their
// upstream and those with no upstream at all. Branches that are in sync,
// behind or diverged from their upstream appear in neither list.
func AnalyzeBranches(repo Repository) (ahead, missing []string, err error) {
	branches, err := repo.LocalBranches()
	if err != nil {
		return nil, nil, fmt.Errorf("getting local branches: %w", err)
	}

	for _, branch := range branches {
		if !branch.HasUpstream() {
			missing = append(missing, branch.Name)
			continue
		}

		local, err := repo.ResolveCommit(branch.Ref)
		if err != nil {
			return nil, nil, fmt.Errorf("branch %s: %w", branch.Name, err)
		}
		remote, err := repo.ResolveCommit(branch.Upstream)
		if err != nil {
			return nil, nil, fmt.Errorf("branch %s upstream: %w", branch.Name, err)
		}

		isAhead, err := repo.IsDescendant(local, remote)
		if err != nil {
			return nil, nil, fmt.Errorf("branch %s: comparing with upstream: %w", branch.Name, err)
		}
		if isAhead {
			ahead = append(ahead, branch.Name)
		}
	}

	return ahead, missing, nil
}
