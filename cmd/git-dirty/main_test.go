package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/entro314-labs/git-dirty/internal/config"
)

func TestBuildVersion(t *testing.T) {
	// Note: Cannot use t.Parallel() on subtests because they modify global package variables
	tests := []struct {
		name     string
		version  string
		commit   string
		date     string
		builtBy  string
		expected string
	}{
		{
			name:     "development version",
			version:  "dev",
			commit:   "none",
			date:     "unknown",
			builtBy:  "unknown",
			expected: "dev (built from source)",
		},
		{
			name:     "release version with full info",
			version:  "v1.0.0",
			commit:   "abc123",
			date:     "2023-01-01T00:00:00Z",
			builtBy:  "goreleaser",
			expected: "v1.0.0 (commit: abc123, built: 2023-01-01T00:00:00Z, by: goreleaser)",
		},
		{
			name:     "release version with empty fields",
			version:  "v1.0.0",
			commit:   "",
			date:     "",
			builtBy:  "",
			expected: "v1.0.0 (commit: , built: , by: )",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origCommit, origDate, origBuiltBy := version, commit, date, builtBy
			defer func() {
				version, commit, date, builtBy = origVersion, origCommit, origDate, origBuiltBy
			}()

			version = tt.version
			commit = tt.commit
			date = tt.date
			builtBy = tt.builtBy

			if result := buildVersion(); result != tt.expected {
				t.Errorf("buildVersion() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRootCommandCreation(t *testing.T) {
	t.Parallel()

	rootCmd := createRootCommand(config.DefaultConfig())

	if rootCmd.Use != "git-dirty [path]" {
		t.Errorf("Expected Use to be 'git-dirty [path]', got %q", rootCmd.Use)
	}

	if !strings.Contains(rootCmd.Long, "git-dirty walks the specified directory") {
		t.Errorf("Unexpected Long description %q", rootCmd.Long)
	}

	if err := cobra.MaximumNArgs(1)(rootCmd, []string{"arg1", "arg2"}); err == nil {
		t.Error("Expected error for more than 1 argument, got nil")
	}

	if err := cobra.MaximumNArgs(1)(rootCmd, []string{"arg1"}); err != nil {
		t.Errorf("Expected no error for 1 argument, got %v", err)
	}
}

func TestRootCommandFlags(t *testing.T) {
	t.Parallel()

	rootCmd := createRootCommand(config.DefaultConfig())
	flags := rootCmd.Flags()

	expectedFlags := []string{
		"path", "branches", "workers", "depth", "verbose", "plain",
		"timeout", "exclude", "output", "save-report", "export-scan",
	}

	for _, flagName := range expectedFlags {
		if flags.Lookup(flagName) == nil {
			t.Errorf("Expected flag %q to be defined", flagName)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	t.Parallel()

	rootCmd := createRootCommand(config.DefaultConfig())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--version"})

	if err := rootCmd.Execute(); err != nil {
		t.Errorf("Expected no error for version flag, got %v", err)
	}

	if !strings.Contains(buf.String(), buildVersion()) {
		t.Errorf("Expected output to contain version info, got %q", buf.String())
	}
}

func TestRootCommandHelp(t *testing.T) {
	t.Parallel()

	rootCmd := createRootCommand(config.DefaultConfig())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Errorf("Expected no error for help flag, got %v", err)
	}

	if !strings.Contains(buf.String(), "Usage:") {
		t.Errorf("Expected output to contain usage info, got %q", buf.String())
	}
}

func TestRootCommandEmptyTree(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "a", "b"), 0o755); err != nil {
		t.Fatalf("Failed to create dirs: %v", err)
	}

	rootCmd := createRootCommand(config.DefaultConfig())

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--plain", "--timeout", "5s", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Expected no error for valid path, got %v", err)
	}

	if out.String() != "total: 0\n" {
		t.Errorf("Expected only the total line, got %q", out.String())
	}
}

func TestRootCommandJSONOutput(t *testing.T) {
	t.Parallel()

	rootCmd := createRootCommand(config.DefaultConfig())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--plain", "-o", "json", t.TempDir()})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(out.String(), `"total": 0`) {
		t.Errorf("Expected JSON document, got %q", out.String())
	}
}

func TestArgumentHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     func(t *testing.T) []string
		wantErr  bool
		errMatch string
	}{
		{
			name:    "path argument",
			args:    func(t *testing.T) []string { return []string{"--plain", t.TempDir()} },
			wantErr: false,
		},
		{
			name:    "path flag",
			args:    func(t *testing.T) []string { return []string{"--plain", "--path", t.TempDir()} },
			wantErr: false,
		},
		{
			name:     "non-existent path",
			args:     func(*testing.T) []string { return []string{"--plain", "/non/existent/path"} },
			wantErr:  true,
			errMatch: "cannot scan /non/existent/path",
		},
		{
			name:     "too many arguments",
			args:     func(*testing.T) []string { return []string{"path1", "path2"} },
			wantErr:  true,
			errMatch: "accepts at most 1 arg(s)",
		},
		{
			name:     "invalid output",
			args:     func(t *testing.T) []string { return []string{"--plain", "-o", "xml", t.TempDir()} },
			wantErr:  true,
			errMatch: "invalid output",
		},
		{
			name:     "invalid exclude",
			args:     func(t *testing.T) []string { return []string{"--plain", "-e", "[abc", t.TempDir()} },
			wantErr:  true,
			errMatch: "invalid exclude pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rootCmd := createRootCommand(config.DefaultConfig())
			var buf bytes.Buffer
			rootCmd.SetOut(&buf)
			rootCmd.SetErr(&buf)
			rootCmd.SetArgs(tt.args(t))

			err := rootCmd.Execute()

			if tt.wantErr && err == nil {
				t.Errorf("Expected error, got nil")
			}

			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}

			if tt.errMatch != "" && err != nil {
				if !strings.Contains(err.Error(), tt.errMatch) {
					t.Errorf("Expected error to contain %q, got %q", tt.errMatch, err.Error())
				}
			}
		})
	}
}

func BenchmarkBuildVersion(b *testing.B) {
	for b.Loop() {
		_ = buildVersion()
	}
}

func BenchmarkRootCommandCreation(b *testing.B) {
	cfg := config.DefaultConfig()

	for b.Loop() {
		_ = createRootCommand(cfg)
	}
}
