package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spacetraveling/internal/bootstrap"
	"spacetraveling/internal/repository"
)

func newBuildCommand(s *state) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the home page and every post page",
		Long: `Generate the home page and one page per post, then publish them all
to the page store. Nothing is published when any page fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outDir != "" {
				s.cfg.Storage.Bucket = ""
				s.cfg.Storage.OutputDir = outDir
			}

			app, err := s.factory(cmd.Context(), s.cfg, bootstrap.SiteOptions(s.cfg))
			if err != nil {
				return err
			}

			report, err := app.Publisher.Build(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages (%d posts) in %s\n", report.Pages, len(report.Posts), report.Duration)
			if fs, ok := app.Store.(*repository.FSStore); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "output: %s\n", fs.Root())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write pages to this directory instead of the configured store")
	return cmd
}
