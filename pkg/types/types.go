package types

import (
	"time"
)

// OutputFormat selects how the final report is printed
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// ChangeSummary counts changed paths in a working tree, one bucket per path
type ChangeSummary struct {
	Modified int `json:"modified" yaml:"modified"`
	New      int `json:"new" yaml:"new"`
	Deleted  int `json:"deleted" yaml:"deleted"`
}

// Total returns the number of changed paths
func (c ChangeSummary) Total() int {
	return c.Modified + c.New + c.Deleted
}

// IsEmpty reports whether the working tree had no changes
func (c ChangeSummary) IsEmpty() bool {
	return c.Total() == 0
}

// BranchDivergence lists local branches that have not been pushed
type BranchDivergence struct {
	Ahead   []string `json:"ahead" yaml:"ahead"`     // upstream configured, local strictly ahead
	Missing []string `json:"missing" yaml:"missing"` // no upstream configured
}

// Total returns the number of branches listed in either set
func (b BranchDivergence) Total() int {
	return len(b.Ahead) + len(b.Missing)
}

// IsEmpty reports whether every local branch is pushed
func (b BranchDivergence) IsEmpty() bool {
	return b.Total() == 0
}

// RepositoryAnalysis is the probe result for one dirty repository
type RepositoryAnalysis struct {
	CurrentBranch *string           `json:"current_branch,omitempty" yaml:"current_branch,omitempty"`
	Changes       *ChangeSummary    `json:"changes,omitempty" yaml:"changes,omitempty"`
	Branches      *BranchDivergence `json:"branches,omitempty" yaml:"branches,omitempty"`
}

// Branch returns the current branch name or an empty string when detached
func (a RepositoryAnalysis) Branch() string {
	if a.CurrentBranch == nil {
		return ""
	}
	return *a.CurrentBranch
}

// Row is one line of the rendered report
type Row []string

// Entry pairs a repository path with its analysis
type Entry struct {
	Path     string             `json:"path" yaml:"path"`
	Analysis RepositoryAnalysis `json:"analysis" yaml:"analysis"`
}

// Config holds application configuration
type Config struct {
	Path       string        `mapstructure:"path" json:"path,omitzero"`
	Branches   bool          `mapstructure:"branches" json:"branches,omitzero"`
	Workers    int           `mapstructure:"workers" json:"workers,omitzero"`
	MaxDepth   int           `mapstructure:"depth" json:"max_depth,omitzero"`
	Verbose    bool          `mapstructure:"verbose" json:"verbose,omitzero"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout,omitzero"`
	Exclude    []string      `mapstructure:"exclude" json:"exclude,omitzero"`
	PlainMode  bool          `mapstructure:"plain" json:"plain_mode,omitzero"`        // Disable the progress spinner
	Output     OutputFormat  `mapstructure:"output" json:"output,omitzero"`           // table, json or yaml
	SaveReport string        `mapstructure:"save-report" json:"save_report,omitzero"` // File path to save a text report
	ExportScan string        `mapstructure:"export-scan" json:"export_scan,omitzero"` // Export scan results to markdown file
}

// ScanStats holds counters about a finished scan
type ScanStats struct {
	Visited   int
	Dirty     int
	Failed    int
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the scan ran
func (s *ScanStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
