// bootstrap は設定から各コンポーネントを組み立てる。
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"spacetraveling/internal/config"
	"spacetraveling/internal/home"
	"spacetraveling/internal/post"
	"spacetraveling/internal/prismic"
	"spacetraveling/internal/render"
	"spacetraveling/internal/repository"
	"spacetraveling/internal/richtext"
	"spacetraveling/internal/site"
	"spacetraveling/pkg/logger"
)

type App struct {
	Config    *config.Config
	Client    *prismic.Client
	Home      *home.Controller
	Post      *post.Controller
	Store     repository.PageStore
	Publisher *site.Publisher
}

// プロセスごとに 1 回呼ぶ
func New(ctx context.Context, cfg *config.Config, opts site.Options) (*App, error) {
	client, err := prismic.New(prismic.Options{
		Endpoint:          cfg.Prismic.Endpoint,
		AccessToken:       cfg.Prismic.AccessToken,
		HTTPClient:        &http.Client{Timeout: cfg.Prismic.Timeout},
		RequestsPerSecond: cfg.Prismic.RequestsPerSecond,
	})
	if err != nil {
		return nil, err
	}

	store, err := NewStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	views, err := render.New(render.Options{
		SiteTitle: cfg.Site.Title,
		Locale:    cfg.Site.Locale,
		Location:  cfg.Site.Location(),
	})
	if err != nil {
		return nil, err
	}

	homeCtl := home.New(client, cfg.Site.PageSize)
	postCtl := post.New(client, richtext.NewHTMLRenderer())

	return &App{
		Config:    cfg,
		Client:    client,
		Home:      homeCtl,
		Post:      postCtl,
		Store:     store,
		Publisher: site.New(homeCtl, postCtl, views, store, opts),
	}, nil
}

// バケット指定があれば S3、なければローカルディレクトリ
func NewStore(ctx context.Context, cfg config.StorageConfig) (repository.PageStore, error) {
	if cfg.Bucket != "" {
		logger.Info("using S3 page store", "bucket", cfg.Bucket)
		store, err := repository.NewS3Store(ctx, cfg.Bucket, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 store: %w", err)
		}
		return store, nil
	}

	logger.Info("using local page store", "dir", cfg.OutputDir)
	return repository.NewFSStore(cfg.OutputDir)
}

// 設定値から配信オプションを作る
func SiteOptions(cfg *config.Config) site.Options {
	return site.Options{
		Revalidate:   cfg.Site.Revalidate,
		CacheTTL:     cfg.Site.Revalidate,
		FallbackWait: cfg.Site.FallbackWait,
	}
}
