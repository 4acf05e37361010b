// cli は spacetraveling コマンド (build / serve / posts) を提供する。
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spacetraveling/internal/bootstrap"
	"spacetraveling/internal/config"
	"spacetraveling/internal/site"
	"spacetraveling/pkg/logger"
)

// 設定からアプリケーションを組み立てる関数
type Factory func(ctx context.Context, cfg *config.Config, opts site.Options) (*bootstrap.App, error)

type state struct {
	cfgFile string
	cfg     *config.Config
	factory Factory
}

func NewRootCommand(factory Factory) *cobra.Command {
	if factory == nil {
		factory = bootstrap.New
	}
	s := &state{factory: factory}

	root := &cobra.Command{
		Use:   "spacetraveling",
		Short: "spacetraveling - blog pages generated from Prismic",
		Long: `spacetraveling builds the blog home page and every post page from a
Prismic repository, and serves them with on-demand generation and revalidation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.initializeConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&s.cfgFile, "config", "", "config file (default is CONFIG_PATH or ./local.yaml)")

	root.AddCommand(newBuildCommand(s), newServeCommand(s), newPostsCommand(s))
	return root
}

func Execute() {
	if err := NewRootCommand(bootstrap.New).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (s *state) initializeConfig(_ *cobra.Command) error {
	cfg, err := config.Load(s.cfgFile)
	if err != nil {
		return err
	}
	s.cfg = cfg
	logger.Setup(cfg.Env, cfg.Log.Level)
	logger.Debug("configuration loaded", "env", cfg.Env, "site", cfg.Site.Title)
	return nil
}
