package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dirtyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	printer = message.NewPrinter(language.English)
)

// View renders the spinner line. Nothing is drawn once the scan is done so
// the results written afterwards start on a clean terminal.
func (m *Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("git-dirty"))
	b.WriteString(" ")
	b.WriteString(m.spinner.View())
	if m.phase == "cancelled" {
		b.WriteString(" Cancelling scan of ")
	} else {
		b.WriteString(" Scanning ")
	}
	b.WriteString(pathStyle.Render(m.rootPath))
	b.WriteString("\n")

	b.WriteString(printer.Sprintf("  %d directories visited, ", m.progress.Visited()))
	b.WriteString(dirtyStyle.Render(printer.Sprintf("%d dirty", m.progress.Dirty())))
	if failed := m.progress.Failed(); failed > 0 {
		b.WriteString(", ")
		b.WriteString(failedStyle.Render(printer.Sprintf("%d failed", failed)))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press 'q' or Ctrl+C to quit"))
	b.WriteString("\n")

	return b.String()
}
