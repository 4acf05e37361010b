package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"spacetraveling/internal/bootstrap"
	"spacetraveling/internal/home"
)

func newPostsCommand(s *state) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts the way the home page loads them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := s.factory(cmd.Context(), s.cfg, bootstrap.SiteOptions(s.cfg))
			if err != nil {
				return err
			}

			initial, err := app.Home.Initial(cmd.Context())
			if err != nil {
				return err
			}

			// 「もっと読む」を終端まで繰り返す
			feed := home.NewFeed(app.Home, initial)
			for feed.HasMore() && (limit <= 0 || len(feed.Posts()) < limit) {
				if _, err := feed.LoadMore(cmd.Context()); err != nil {
					return err
				}
			}

			posts := feed.Posts()
			if limit > 0 && len(posts) > limit {
				posts = posts[:limit]
			}

			views := app.Publisher.Views()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", views.Date(p.FirstPublicationDate), p.UID, p.Data.Title, p.Data.Author)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many posts (0 lists all)")
	return cmd
}
