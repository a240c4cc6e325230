package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

// DefaultMaxDepth is how many levels below the root are visited
const DefaultMaxDepth = 4

// ErrWalkAborted is returned by Walk when a visit asked to stop everything
var ErrWalkAborted = errors.New("walk aborted")

// Directive tells the scanner what to do after visiting a directory
type Directive int

const (
	// Continue descends into the directory
	Continue Directive = iota
	// SkipSubtree leaves the directory's children unvisited
	SkipSubtree
	// Abort stops the whole walk
	Abort
)

// VisitFunc is called once per visited directory, possibly from several
// goroutines at once. A returned error is logged and treated like Continue.
type VisitFunc func(ctx context.Context, path string) (Directive, error)

// Scanner walks a directory tree in parallel looking for repositories
type Scanner struct {
	workers  int
	maxDepth int
	exclude  []string
	logger   *slog.Logger
}

// DefaultWorkers returns the worker count used when none is configured
func DefaultWorkers() int {
	return runtime.NumCPU() * 2
}

// NewScanner creates a new directory scanner
func NewScanner(config *types.Config, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := config.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Scanner{
		workers:  workers,
		maxDepth: config.MaxDepth,
		exclude:  config.Exclude,
		logger:   logger,
	}
}

// Walk visits rootPath and every directory below it up to the configured
// depth. A negative depth means no limit. Only an unusable root is fatal;
// unreadable subdirectories are logged and skipped.
func (s *Scanner) Walk(ctx context.Context, rootPath string, visit VisitFunc) error {
	info, err := os.Stat(rootPath)
	if err != nil {
		return fmt.Errorf("cannot scan %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot scan %s: not a directory", rootPath)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	w := &walk{scanner: s, group: g, visit: visit}
	g.Go(func() error {
		return w.dir(gctx, rootPath, 0)
	})
	return g.Wait()
}

type walk struct {
	scanner *Scanner
	group   *errgroup.Group
	visit   VisitFunc
}

func (w *walk) dir(ctx context.Context, path string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	directive, err := w.visit(ctx, path)
	if err != nil {
		w.scanner.logger.Debug("Visit failed", "path", path, "error", err)
		directive = Continue
	}
	switch directive {
	case SkipSubtree:
		return nil
	case Abort:
		return ErrWalkAborted
	}

	if w.scanner.maxDepth >= 0 && depth >= w.scanner.maxDepth {
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if depth == 0 {
			return fmt.Errorf("cannot scan %s: %w", path, err)
		}
		w.scanner.logger.Debug("Cannot read directory", "path", path, "error", err)
		return nil
	}

	for _, entry := range entries {
		// symlinks are not followed: IsDir is false for them
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(path, entry.Name())
		if w.scanner.excluded(child) {
			continue
		}

		// Run inline when every worker is busy so recursion cannot deadlock
		if !w.group.TryGo(func() error { return w.dir(ctx, child, depth+1) }) {
			if err := w.dir(ctx, child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// excluded reports whether path matches an exclude glob, either as a whole
// path or by its base name
func (s *Scanner) excluded(path string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	slashPath := filepath.ToSlash(path)
	name := filepath.Base(path)
	for _, pattern := range s.exclude {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, slashPath); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
