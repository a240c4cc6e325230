package report

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/entro314-labs/git-dirty/pkg/types"
)

// SaveReport writes a plain text report of a finished scan to path
func SaveReport(path string, config *types.Config, entries []types.Entry, stats *types.ScanStats) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", closeErr)
		}
	}()

	var writeErr error
	fprintf := func(format string, a ...interface{}) {
		if writeErr != nil {
			return
		}
		_, writeErr = fmt.Fprintf(file, format, a...)
	}
	p := message.NewPrinter(language.English)

	fprintf("git-dirty Report - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fprintf("Root: %s\n", config.Path)
	fprintf("Branches: %t\n", config.Branches)
	fprintf("Workers: %d\n", config.Workers)
	if stats != nil {
		fprintf("Directories Scanned: %s\n", p.Sprintf("%d", stats.Visited))
		fprintf("Failed: %d\n", stats.Failed)
		fprintf("Duration: %v\n", stats.Duration().Truncate(time.Millisecond))
	}
	fprintf("Dirty Repositories: %s\n\n", p.Sprintf("%d", len(entries)))

	fprintf("Repository Details:\n")
	fprintf("==================\n\n")

	for _, entry := range entries {
		fprintf("Repository: %s\n", entry.Path)
		if branch := entry.Analysis.Branch(); branch != "" {
			fprintf("Branch: %s\n", branch)
		}
		if c := entry.Analysis.Changes; c != nil {
			fprintf("Changes: %d modified, %d new, %d deleted\n", c.Modified, c.New, c.Deleted)
		}
		if b := entry.Analysis.Branches; b != nil {
			if len(b.Ahead) > 0 {
				fprintf("Ahead: %s\n", strings.Join(b.Ahead, ListDelimiter))
			}
			if len(b.Missing) > 0 {
				fprintf("Missing: %s\n", strings.Join(b.Missing, ListDelimiter))
			}
		}
		fprintf("\n")
	}

	if writeErr != nil {
		return fmt.Errorf("failed to write to report file: %w", writeErr)
	}

	return nil
}

// ExportMarkdown writes the scan results to a markdown file
func ExportMarkdown(path string, entries []types.Entry) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	var writeErr error
	fprintf := func(format string, a ...interface{}) {
		if writeErr != nil {
			return
		}
		_, writeErr = fmt.Fprintf(file, format, a...)
	}

	fprintf("# Dirty Repository Report\n\n")
	fprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fprintf("Total Repositories: %d\n\n", len(entries))
	fprintf("---\n\n")

	for _, entry := range entries {
		fprintf("## %s\n\n", entry.Path)

		if branch := entry.Analysis.Branch(); branch != "" {
			fprintf("**Branch:** %s\n\n", branch)
		}

		if c := entry.Analysis.Changes; c != nil && !c.IsEmpty() {
			fprintf("| modified | new | deleted |\n")
			fprintf("|---|---|---|\n")
			fprintf("| %d | %d | %d |\n\n", c.Modified, c.New, c.Deleted)
		} else {
			fprintf("**Status:** Clean (no local changes)\n\n")
		}

		if b := entry.Analysis.Branches; b != nil {
			for _, name := range b.Ahead {
				fprintf("- `%s` has unpushed commits\n", name)
			}
			for _, name := range b.Missing {
				fprintf("- `%s` has no upstream\n", name)
			}
			if !b.IsEmpty() {
				fprintf("\n")
			}
		}

		fprintf("---\n\n")
	}

	if writeErr != nil {
		return fmt.Errorf("failed to write export: %w", writeErr)
	}
	return nil
}
