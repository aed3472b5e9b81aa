// Package cli defines the command-line interface of the backend.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/config"
	"github.com/0010capacity/capacity-backend/internal/logging"
)

// BuildInfo is set at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
}

var (
	cfg    *config.Config
	logger *zap.Logger
	build  BuildInfo
)

// rootCmd serves HTTP when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "capacity-backend",
	Short: "0010capacity content API",
	Long: `Backend for the 0010capacity site: novels with chapters, blog posts and apps
behind a JSON API, plus server-rendered pages and a static site generator.

Configuration is read from environment variables. Run without a subcommand to
start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.NewConfig()
		var err error
		logger, err = logging.New(cfg.Log, cfg.App.Env)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, generateSiteCmd, createAdminCmd, versionCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute(info BuildInfo) {
	build = info
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
