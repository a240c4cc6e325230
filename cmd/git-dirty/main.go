package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/entro314-labs/git-dirty/internal/config"
	"github.com/entro314-labs/git-dirty/internal/worker"
	"github.com/entro314-labs/git-dirty/pkg/types"
)

// Version information - populated at build time by GoReleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// buildVersion returns a formatted version string
func buildVersion() string {
	if version == "dev" {
		return fmt.Sprintf("%s (built from source)", version)
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s)", version, commit, date, builtBy)
}

// createRootCommand builds the root command with its flags bound to cfg
func createRootCommand(cfg *types.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git-dirty [path]",
		Short: "Find git repositories with uncommitted or unpushed work",
		Long: `git-dirty walks the specified directory and its subdirectories in parallel
and lists every git repository with local changes. With --branches it also
reports local branches that are ahead of their upstream or have none.`,
		Version:      buildVersion(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := config.SetupViper(cmd, v); err != nil {
				return fmt.Errorf("failed to set up config: %w", err)
			}
			loaded, err := config.LoadConfig(v)
			if err != nil {
				return err
			}

			// Setup signal handling for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// Add timeout if specified
			if loaded.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, loaded.Timeout)
				defer cancel()
			}

			// Positional path wins over --path
			if len(args) > 0 {
				loaded.Path = args[0]
			}

			manager := worker.New(loaded)
			manager.SetOutput(cmd.OutOrStdout())
			return manager.Execute(ctx, loaded.Path)
		},
	}

	config.SetupFlags(rootCmd, cfg)

	return rootCmd
}

func main() {
	cfg := config.DefaultConfig()
	rootCmd := createRootCommand(cfg)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
