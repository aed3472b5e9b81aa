package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0010capacity/capacity-backend/internal/entrypoint"
)

var outputDir string

var generateSiteCmd = &cobra.Command{
	Use:   "generate-site",
	Short: "Render published content to static HTML and exit",
	Long: `Writes blog and novel pages plus sitemap.xml under STATIC_OUTPUT_DIR.
Draft novels and unpublished posts are skipped, and pages of content that is
no longer published are removed.

Example:
  capacity-backend generate-site --output ./public`,
	Args: cobra.NoArgs,
	RunE: runGenerateSite,
}

func init() {
	generateSiteCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides STATIC_OUTPUT_DIR)")
}

func runGenerateSite(cmd *cobra.Command, args []string) error {
	if outputDir != "" {
		cfg.Site.OutputDir = outputDir
	}
	if cfg.Site.OutputDir == "" {
		return fmt.Errorf("no output directory: set STATIC_OUTPUT_DIR or pass --output")
	}
	cfg.Tasks.Enabled = false

	app, err := entrypoint.NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Builder.Build(cmd.Context())
	app.Audit.LogMaintenance("site_generate", fmt.Sprintf("%d posts, %d novels", result.Posts, result.Novels), err)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d posts, %d novels (%d chapters) in %s; removed %d stale pages\n",
		result.Posts, result.Novels, result.Chapters, cfg.Site.OutputDir, result.Removed)
	return nil
}
