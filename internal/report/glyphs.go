package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

// Glyph stands for one changed path
const Glyph = "•"

// GlyphFunc renders a change summary as a glyph string
type GlyphFunc func(types.ChangeSummary) string

var (
	modifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	newStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// PlainGlyphs writes one glyph per modified, then new, then deleted path
func PlainGlyphs(c types.ChangeSummary) string {
	return strings.Repeat(Glyph, c.Modified) +
		strings.Repeat(Glyph, c.New) +
		strings.Repeat(Glyph, c.Deleted)
}

// StyledGlyphs is PlainGlyphs colored yellow, green and red per bucket
func StyledGlyphs(c types.ChangeSummary) string {
	var b strings.Builder
	for _, part := range []struct {
		count int
		style lipgloss.Style
	}{
		{c.Modified, modifiedStyle},
		{c.New, newStyle},
		{c.Deleted, deletedStyle},
	} {
		if part.count > 0 {
			b.WriteString(part.style.Render(strings.Repeat(Glyph, part.count)))
		}
	}
	return b.String()
}
