package tui

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Progress holds counters shared between the scan and the view
type Progress struct {
	visited atomic.Int64
	dirty   atomic.Int64
	failed  atomic.Int64
}

func (p *Progress) AddVisited() { p.visited.Add(1) }
func (p *Progress) AddDirty() { p.dirty.Add(1) }
func (p *Progress) AddFailed() { p.failed.Add(1) }

func (p *Progress) Visited() int { return int(p.visited.Load()) }
func (p *Progress) Dirty() int { return int(p.dirty.Load()) }
func (p *Progress) Failed() int { return int(p.failed.Load()) }

// ScanFunc runs a complete scan, reporting into the model's Progress
type ScanFunc func(ctx context.Context) error

// Model shows a spinner with live counters while a scan runs
type Model struct {
	rootPath string
	ctx      context.Context
	cancel   context.CancelFunc
	scan     ScanFunc
	progress *Progress

	// UI state
	phase   string
	spinner spinner.Model

	// Status
	done bool
	err  error
}

type scanDoneMsg struct {
	err error
}

// NewModel creates a model that runs scan under ctx once started
func NewModel(ctx context.Context, rootPath string, progress *Progress, scan ScanFunc) *Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &Model{
		rootPath: rootPath,
		ctx:      ctx,
		cancel:   cancel,
		scan:     scan,
		progress: progress,
		phase:    "scanning",
		spinner:  s,
	}
}

// Err returns the scan's result once the program has finished
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runScan(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.phase = "cancelled"
			m.cancel()
			return m, nil
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.done = true
		m.err = msg.err
		m.phase = "complete"
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) runScan() tea.Cmd {
	return func() tea.Msg {
		return scanDoneMsg{err: m.scan(m.ctx)}
	}
}
