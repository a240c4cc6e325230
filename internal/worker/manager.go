package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/entro314-labs/git-dirty/internal/git"
	"github.com/entro314-labs/git-dirty/internal/report"
	"github.com/entro314-labs/git-dirty/internal/tui"
	"github.com/entro314-labs/git-dirty/pkg/types"
)

// Manager runs a dirty-repository scan and writes its report
type Manager struct {
	config  *types.Config
	logger  *slog.Logger
	scanner *git.Scanner
	prober  *git.Prober

	out      io.Writer
	progress io.Writer
}

// New creates a new Manager instance
func New(config *types.Config) *Manager {
	level := slog.LevelInfo
	if config.Verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)

	return &Manager{
		config:   config,
		logger:   logger,
		scanner:  git.NewScanner(config, logger),
		prober:   git.NewProber(config, logger),
		out:      os.Stdout,
		progress: os.Stderr,
	}
}

// SetOutput redirects the report, which goes to stdout by default
func (m *Manager) SetOutput(w io.Writer) {
	m.out = w
}

// SetLogger replaces the logger used by the manager and its scanner
func (m *Manager) SetLogger(logger *slog.Logger) {
	m.logger = logger
	m.scanner = git.NewScanner(m.config, logger)
	m.prober = git.NewProber(m.config, logger)
}

// scan holds the state of one walk over the tree
type scan struct {
	table    *report.Table
	progress *tui.Progress
}

// Execute scans rootPath for dirty repositories and reports them
func (m *Manager) Execute(ctx context.Context, rootPath string) error {
	info, err := os.Stat(rootPath)
	if err != nil {
		return fmt.Errorf("cannot scan %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", rootPath)
	}

	stats := &types.ScanStats{StartTime: time.Now()}

	var result *scan
	if m.useTUI() {
		result, err = m.executeWithTUI(ctx, rootPath)
	} else {
		result, err = m.executeInPlainMode(ctx, rootPath)
	}
	stats.EndTime = time.Now()
	if err != nil {
		return err
	}

	stats.Visited = result.progress.Visited()
	stats.Dirty = result.progress.Dirty()
	stats.Failed = result.progress.Failed()

	m.logger.DebugContext(ctx, "Scan complete",
		"path", rootPath,
		"visited", stats.Visited,
		"dirty", stats.Dirty,
		"failed", stats.Failed,
		"duration", stats.Duration().Truncate(time.Millisecond))

	if err := m.render(result.table); err != nil {
		return err
	}

	entries := result.table.Entries()

	// Save report to file if requested
	if m.config.SaveReport != "" {
		if err := report.SaveReport(m.config.SaveReport, m.config, entries, stats); err != nil {
			m.logger.ErrorContext(ctx, "Failed to save report", "error", err)
		} else {
			m.logger.InfoContext(ctx, "Report saved", "file", m.config.SaveReport)
		}
	}

	// Export scan results to markdown if requested
	if m.config.ExportScan != "" {
		if err := report.ExportMarkdown(m.config.ExportScan, entries); err != nil {
			m.logger.ErrorContext(ctx, "Failed to export scan", "error", err)
		} else {
			m.logger.InfoContext(ctx, "Scan exported", "file", m.config.ExportScan)
		}
	}

	return nil
}

// useTUI reports whether the spinner should be drawn. It needs a terminal
// and does not mix well with verbose logging on the same stream.
func (m *Manager) useTUI() bool {
	if m.config.PlainMode || m.config.Verbose {
		return false
	}
	return isTerminal(m.progress)
}

// executeWithTUI runs the walk behind a spinner on stderr
func (m *Manager) executeWithTUI(parent context.Context, rootPath string) (*scan, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	result := m.newScan()
	model := tui.NewModel(ctx, rootPath, result.progress, func(ctx context.Context) error {
		return m.walk(ctx, rootPath, result)
	})
	p := tea.NewProgram(model, tea.WithOutput(m.progress))

	if _, err := p.Run(); err != nil {
		// Fallback to plain mode if TUI fails
		m.logger.Error("TUI failed, falling back to plain mode", "error", err)
		cancel()
		return m.executeInPlainMode(parent, rootPath)
	}
	if err := model.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// executeInPlainMode runs the walk without any progress display
func (m *Manager) executeInPlainMode(ctx context.Context, rootPath string) (*scan, error) {
	m.logger.DebugContext(ctx, "Starting scan",
		"path", rootPath,
		"workers", m.config.Workers,
		"depth", m.config.MaxDepth,
		"branches", m.config.Branches)

	result := m.newScan()
	if err := m.walk(ctx, rootPath, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (m *Manager) newScan() *scan {
	glyphs := report.PlainGlyphs
	if m.config.Output == types.OutputTable && isTerminal(m.out) {
		glyphs = report.StyledGlyphs
	}
	return &scan{
		table:    report.NewTable(m.config.Branches, glyphs),
		progress: &tui.Progress{},
	}
}

// walk probes every directory below rootPath and collects dirty repositories
func (m *Manager) walk(ctx context.Context, rootPath string, result *scan) error {
	err := m.scanner.Walk(ctx, rootPath, func(ctx context.Context, path string) (git.Directive, error) {
		result.progress.AddVisited()

		probe, err := m.prober.Probe(path)
		if err != nil {
			result.progress.AddFailed()
			m.logger.WarnContext(ctx, "Skipping repository", "path", path, "error", err)
			return git.SkipSubtree, nil
		}
		if !probe.IsRepository {
			return git.Continue, nil
		}
		if probe.Analysis != nil {
			result.progress.AddDirty()
			result.table.Add(path, *probe.Analysis)
		}
		return git.SkipSubtree, nil
	})
	if err != nil && !errors.Is(err, git.ErrWalkAborted) {
		return fmt.Errorf("failed to scan %s: %w", rootPath, err)
	}
	return nil
}

// render writes the collected rows in the configured output format
func (m *Manager) render(table *report.Table) error {
	var err error
	switch m.config.Output {
	case types.OutputJSON:
		err = report.WriteJSON(m.out, table.Entries())
	case types.OutputYAML:
		err = report.WriteYAML(m.out, table.Entries())
	default:
		err = report.RenderTable(m.out, table.Rows(), terminalWidth(m.out))
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or 0 when it is not a terminal
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
