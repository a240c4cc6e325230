package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/entro314-labs/git-dirty/internal/git"
	"github.com/entro314-labs/git-dirty/pkg/types"
)

// EnvPrefix prefixes environment variable overrides, e.g. GIT_DIRTY_DEPTH
const EnvPrefix = "GIT_DIRTY"

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *types.Config {
	return &types.Config{
		Path:       ".",
		Branches:   false,
		Workers:    git.DefaultWorkers(),
		MaxDepth:   git.DefaultMaxDepth,
		Verbose:    false,
		Timeout:    0,
		Exclude:    []string{},
		PlainMode:  false,
		Output:     types.OutputTable,
		SaveReport: "",
		ExportScan: "",
	}
}

// SetupFlags configures command line flags for the root command
func SetupFlags(cmd *cobra.Command, config *types.Config) {
	cmd.Flags().StringVarP(&config.Path, "path", "p", config.Path, "Root path to scan")
	cmd.Flags().BoolVarP(&config.Branches, "branches", "b", false, "Include analysis for local branches")
	cmd.Flags().IntVarP(&config.Workers, "workers", "w", config.Workers, "Number of concurrent workers")
	cmd.Flags().IntVarP(&config.MaxDepth, "depth", "d", git.DefaultMaxDepth, "Directory levels to descend below the root (negative for no limit)")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolVarP(&config.PlainMode, "plain", "", false, "Disable the progress spinner")
	cmd.Flags().DurationVarP(&config.Timeout, "timeout", "t", 0, "Overall scan timeout (0 for none)")
	cmd.Flags().StringSliceVarP(&config.Exclude, "exclude", "e", []string{}, "Glob patterns of directories to skip (e.g. node_modules,**/vendor)")
	cmd.Flags().VarP(newOutputValue(&config.Output), "output", "o", "Output format: table, json or yaml")
	cmd.Flags().StringVarP(&config.SaveReport, "save-report", "", "", "Save a text report to file (e.g., report.txt)")
	cmd.Flags().StringVarP(&config.ExportScan, "export-scan", "", "", "Export scan results to a markdown file")
}

// outputValue implements pflag.Value for OutputFormat
type outputValue struct {
	target *types.OutputFormat
}

func newOutputValue(target *types.OutputFormat) *outputValue {
	return &outputValue{target: target}
}

func (o *outputValue) String() string {
	return string(*o.target)
}

func (o *outputValue) Set(s string) error {
	*o.target = types.OutputFormat(strings.ToLower(s))
	return nil
}

func (o *outputValue) Type() string {
	return "string"
}

// flagNames lists every flag that viper can also read from file or env
var flagNames = []string{
	"path", "branches", "workers", "depth", "verbose", "plain",
	"timeout", "exclude", "output", "save-report", "export-scan",
}

// SetupViper configures v for configuration file and environment support
func SetupViper(cmd *cobra.Command, v *viper.Viper) error {
	v.SetConfigName("git-dirty")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/git-dirty")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range flagNames {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	// Try to read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file: %v\n", err)
		}
	}

	return nil
}

// LoadConfig loads and validates configuration
func LoadConfig(v *viper.Viper) (*types.Config, error) {
	config := DefaultConfig()

	// Load from viper (which includes file, env and flags)
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate normalizes config in place and rejects unusable values
func Validate(config *types.Config) error {
	if config.Path == "" {
		config.Path = "."
	}
	if config.Workers <= 0 {
		config.Workers = git.DefaultWorkers()
	}

	config.Output = types.OutputFormat(strings.ToLower(string(config.Output)))
	switch config.Output {
	case types.OutputTable, types.OutputJSON, types.OutputYAML:
		// valid
	case "":
		config.Output = types.OutputTable
	default:
		return fmt.Errorf("invalid output: %s (must be 'table', 'json', or 'yaml')", config.Output)
	}

	for _, pattern := range config.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	if config.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %v", config.Timeout)
	}

	return nil
}
