// Package report collects probe results from concurrent workers and renders
// them as a table, JSON, YAML or file exports.
package report

import (
	"strings"
	"sync"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

// ListDelimiter joins branch names inside a single cell
const ListDelimiter = ", "

// Table is the shared result table. Any number of workers may call Add
// concurrently; each call appends one whole row.
type Table struct {
	mu       sync.Mutex
	branches bool
	glyphs   GlyphFunc
	rows     []types.Row
	entries  []types.Entry
}

// NewTable creates an empty table. The column layout is fixed here: two
// columns, or four when branch analysis is included.
func NewTable(includeBranches bool, glyphs GlyphFunc) *Table {
	if glyphs == nil {
		glyphs = PlainGlyphs
	}
	return &Table{
		branches: includeBranches,
		glyphs:   glyphs,
	}
}

// Header returns the header row for the table's column layout
func (t *Table) Header() types.Row {
	if t.branches {
		return types.Row{"repository", "changes", "ahead", "missing"}
	}
	return types.Row{"repository", "changes"}
}

// Add publishes one repository. The header is written by whichever call
// reaches the lock first.
func (t *Table) Add(path string, analysis types.RepositoryAnalysis) {
	row := t.row(path, analysis)
	entry := types.Entry{Path: path, Analysis: analysis}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.rows) == 0 {
		t.rows = append(t.rows, t.Header())
	}
	t.rows = append(t.rows, row)
	t.entries = append(t.entries, entry)
}

func (t *Table) row(path string, analysis types.RepositoryAnalysis) types.Row {
	var changes types.ChangeSummary
	if analysis.Changes != nil {
		changes = *analysis.Changes
	}

	row := types.Row{path, t.glyphs(changes)}
	if t.branches {
		var state types.BranchDivergence
		if analysis.Branches != nil {
			state = *analysis.Branches
		}
		row = append(row,
			strings.Join(state.Ahead, ListDelimiter),
			strings.Join(state.Missing, ListDelimiter),
		)
	}
	return row
}

// Rows returns a copy of all rows, header first. It is empty when nothing
// was added.
func (t *Table) Rows() []types.Row {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]types.Row, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Entries returns a copy of the published analyses in arrival order
func (t *Table) Entries() []types.Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := make([]types.Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Len returns the number of data rows
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
