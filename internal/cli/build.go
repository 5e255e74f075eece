package cli

import (
	"fmt"

	"spacetraveling/internal/export"
	"spacetraveling/internal/render"

	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the site as static files",
		Long: `Export every listing page and post as static files.

Examples:
  spacetraveling build --out public
  spacetraveling build --demo --out /tmp/site`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.source()
			if err != nil {
				return err
			}
			renderer, err := render.New(a.cfg.SiteTitle)
			if err != nil {
				return err
			}
			stats, err := export.Run(cmd.Context(), source, renderer, out, export.Options{
				PageSize: a.cfg.PageSize,
				Logger:   a.logger,
			})
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pages and %d posts to %s\n", stats.Pages, stats.Posts, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "public", "output directory")
	return cmd
}
