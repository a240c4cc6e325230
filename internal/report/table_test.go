package report

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

func analysis(changes types.ChangeSummary, state *types.BranchDivergence) types.RepositoryAnalysis {
	return types.RepositoryAnalysis{Changes: &changes, Branches: state}
}

func TestTableEmpty(t *testing.T) {
	t.Parallel()

	table := NewTable(false, nil)

	if rows := table.Rows(); len(rows) != 0 {
		t.Errorf("Expected no rows, got %v", rows)
	}
	if table.Len() != 0 {
		t.Errorf("Expected Len() 0, got %d", table.Len())
	}
}

func TestTableHeaderLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		branches bool
		expected types.Row
	}{
		{
			name:     "changes only",
			branches: false,
			expected: types.Row{"repository", "changes"},
		},
		{
			name:     "with branches",
			branches: true,
			expected: types.Row{"repository", "changes", "ahead", "missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table := NewTable(tt.branches, nil)
			table.Add("/work/a", analysis(types.ChangeSummary{New: 1}, &types.BranchDivergence{}))
			table.Add("/work/b", analysis(types.ChangeSummary{Modified: 2}, &types.BranchDivergence{}))

			rows := table.Rows()
			if len(rows) != 3 {
				t.Fatalf("Expected 3 rows, got %d", len(rows))
			}
			if !reflect.DeepEqual(rows[0], tt.expected) {
				t.Errorf("Header = %v, want %v", rows[0], tt.expected)
			}
			for i, row := range rows {
				if len(row) != len(tt.expected) {
					t.Errorf("Row %d has %d cells, want %d", i, len(row), len(tt.expected))
				}
			}
		})
	}
}

func TestTableRowCells(t *testing.T) {
	t.Parallel()

	table := NewTable(true, PlainGlyphs)
	table.Add("/work/repo", analysis(
		types.ChangeSummary{Modified: 2, New: 1, Deleted: 1},
		&types.BranchDivergence{Ahead: []string{"main", "dev"}, Missing: []string{"feature"}},
	))

	rows := table.Rows()
	expected := types.Row{"/work/repo", "••••", "main, dev", "feature"}
	if !reflect.DeepEqual(rows[1], expected) {
		t.Errorf("Row = %q, want %q", rows[1], expected)
	}

	entries := table.Entries()
	if len(entries) != 1 || entries[0].Path != "/work/repo" {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}

func TestTableRowWithoutChanges(t *testing.T) {
	t.Parallel()

	table := NewTable(true, PlainGlyphs)
	table.Add("/work/pushed", types.RepositoryAnalysis{
		Branches: &types.BranchDivergence{Ahead: []string{"main"}},
	})

	row := table.Rows()[1]
	if row[1] != "" {
		t.Errorf("Expected empty glyph cell, got %q", row[1])
	}
	if row[3] != "" {
		t.Errorf("Expected empty missing cell, got %q", row[3])
	}
}

func TestTableConcurrentAdd(t *testing.T) {
	t.Parallel()

	for _, workers := range []int{1, 4, 32} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			t.Parallel()

			const perWorker = 50
			table := NewTable(true, PlainGlyphs)

			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						path := fmt.Sprintf("/work/w%d/r%d", w, i)
						table.Add(path, analysis(
							types.ChangeSummary{New: i%3 + 1},
							&types.BranchDivergence{Missing: []string{path}},
						))
					}
				}()
			}
			wg.Wait()

			rows := table.Rows()
			if len(rows) != 1+workers*perWorker {
				t.Fatalf("Expected %d rows, got %d", 1+workers*perWorker, len(rows))
			}
			if rows[0][0] != "repository" {
				t.Errorf("Expected header first, got %v", rows[0])
			}

			seen := make(map[string]bool)
			for _, row := range rows[1:] {
				// missing column repeats the path, so a torn row would not match
				if row[0] != row[3] {
					t.Errorf("Interleaved row: %q", row)
				}
				if row[0] == "repository" {
					t.Error("Header written more than once")
				}
				if seen[row[0]] {
					t.Errorf("Duplicate row for %s", row[0])
				}
				seen[row[0]] = true
				if strings.Count(row[1], Glyph) < 1 {
					t.Errorf("Expected glyphs in row %q", row)
				}
			}
		})
	}
}
