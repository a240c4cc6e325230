package git

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

// ProbeResult describes one candidate directory
type ProbeResult struct {
	// IsRepository is set for any repository root, bare ones included
	IsRepository bool
	// Analysis is nil when the repository has nothing to report
	Analysis *types.RepositoryAnalysis
}

// Prober inspects candidate directories for dirty repositories
type Prober struct {
	includeBranches bool
	open            Opener
	logger          *slog.Logger
}

// NewProber creates a prober backed by go-git. The user's global and system
// ignore patterns are read here, once, and shared by every probe.
func NewProber(config *types.Config, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Prober{
		includeBranches: config.Branches,
		open:            NewOpener(ExcludePatterns()),
		logger:          logger,
	}
}

// Probe opens path as a repository and reports its local changes. A status
// failure is returned as an error with IsRepository set, so a repository is
// never reported clean on top of a failed query.
func (p *Prober) Probe(path string) (ProbeResult, error) {
	if _, err := os.Stat(path); err != nil {
		return ProbeResult{}, nil
	}

	repo, err := p.open(path)
	if err != nil {
		if !errors.Is(err, ErrNotRepository) {
			p.logger.Debug("Cannot open repository", "path", path, "error", err)
		}
		return ProbeResult{}, nil
	}

	if repo.IsBare() {
		return ProbeResult{IsRepository: true}, nil
	}

	statuses, err := repo.Status()
	if err != nil {
		return ProbeResult{IsRepository: true}, fmt.Errorf("status of %s: %w", path, err)
	}

	changes := Classify(statuses)
	analysis := &types.RepositoryAnalysis{Changes: &changes}
	if branch, ok := repo.CurrentBranch(); ok {
		analysis.CurrentBranch = &branch
	}

	if !p.includeBranches {
		if changes.IsEmpty() {
			return ProbeResult{IsRepository: true}, nil
		}
		return ProbeResult{IsRepository: true, Analysis: analysis}, nil
	}

	ahead, missing, err := AnalyzeBranches(repo)
	if err != nil {
		p.logger.Debug("Branch analysis failed", "path", path, "error", err)
		ahead, missing = nil, nil
	}
	state := types.BranchDivergence{Ahead: ahead, Missing: missing}
	if ahead == nil {
		state.Ahead = []string{}
	}
	if missing == nil {
		state.Missing = []string{}
	}
	analysis.Branches = &state

	if changes.IsEmpty() && state.IsEmpty() {
		return ProbeResult{IsRepository: true}, nil
	}
	return ProbeResult{IsRepository: true, Analysis: analysis}, nil
}
