package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.yaml.in/yaml/v3"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	pathStyle   = lipgloss.NewStyle().Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Document is the machine-readable form of a scan
type Document struct {
	Repositories []types.Entry `json:"repositories" yaml:"repositories"`
	Total        int           `json:"total" yaml:"total"`
}

// NewDocument wraps entries for JSON or YAML output
func NewDocument(entries []types.Entry) Document {
	if entries == nil {
		entries = []types.Entry{}
	}
	return Document{Repositories: entries, Total: len(entries)}
}

// RenderTable prints rows as a bordered table followed by the total line.
// rows must start with the header. Nothing but the total line is printed
// when rows is empty. A positive width caps the table width.
func RenderTable(w io.Writer, rows []types.Row, width int) error {
	total := 0
	if len(rows) > 0 {
		total = len(rows) - 1

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(borderStyle).
			Headers(rows[0]...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 0:
					return pathStyle
				default:
					return cellStyle
				}
			})
		for _, row := range rows[1:] {
			t.Row(row...)
		}
		if width > 0 {
			t.Width(width)
		}

		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "total: %d\n", total); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	return nil
}

// WriteJSON prints entries as an indented JSON document
func WriteJSON(w io.Writer, entries []types.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(entries)); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// WriteYAML prints entries as a YAML document
func WriteYAML(w io.Writer, entries []types.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(entries)); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return nil
}
