package cli

import (
	"github.com/spf13/cobra"

	"github.com/0010capacity/capacity-backend/internal/entrypoint"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default if no command given)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	return entrypoint.Run(cmd.Context(), cfg, logger, build.Version)
}
