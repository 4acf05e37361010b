// site はページの静的生成と配信 (オンデマンド生成・再検証) を担う。
//
// ビルド時に一覧と全記事を生成してページストアへ公開し、リクエスト時は
// 保存済みページを返す。未生成の記事は初回リクエストで生成し、
// 再検証間隔を過ぎたページは古いまま返してバックグラウンドで作り直す。
package site

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"spacetraveling/internal/home"
	"spacetraveling/internal/metrics"
	"spacetraveling/internal/post"
	"spacetraveling/internal/prismic"
	"spacetraveling/internal/render"
	"spacetraveling/internal/repository"
	"spacetraveling/pkg/logger"
)

const (
	routeHome = "home"
	routePost = "post"

	defaultBuildConcurrency = 4
	htmlContentType         = "text/html; charset=utf-8"
)

// 配信したページの状態
type State string

const (
	StateFresh     State = "fresh"
	StateStale     State = "stale"
	StateGenerated State = "generated"
	StateFallback  State = "fallback"
)

type Options struct {
	// 0 ならリクエスト時の再検証をしない
	Revalidate time.Duration
	// Cache-Control の s-maxage
	CacheTTL time.Duration
	// 0 なら生成完了まで待つ
	FallbackWait     time.Duration
	BuildConcurrency int
	Now              func() time.Time
}

type Result struct {
	Body        []byte
	GeneratedAt time.Time
	State       State
}

type BuildReport struct {
	Pages    int
	Posts    []string
	Duration time.Duration
}

type Publisher struct {
	home  *home.Controller
	post  *post.Controller
	views *render.Renderer
	store repository.PageStore
	opts  Options

	group singleflight.Group
	wg    sync.WaitGroup
}

func New(homeCtl *home.Controller, postCtl *post.Controller, views *render.Renderer, store repository.PageStore, opts Options) *Publisher {
	if opts.BuildConcurrency <= 0 {
		opts.BuildConcurrency = defaultBuildConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Publisher{home: homeCtl, post: postCtl, views: views, store: store, opts: opts}
}

func (p *Publisher) Views() *render.Renderer { return p.views }

// ページ用の Cache-Control
func (p *Publisher) CacheControl(r *Result) string {
	if r == nil || r.State == StateFallback || p.opts.CacheTTL <= 0 {
		return "no-store"
	}
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate", int(p.opts.CacheTTL.Seconds()))
}

// 一覧と列挙された全記事を生成して公開 (1 件でも失敗したら何も公開しない)
func (p *Publisher) Build(ctx context.Context) (*BuildReport, error) {
	start := p.opts.Now()

	uids, err := p.post.Paths(ctx)
	if err != nil {
		return nil, fmt.Errorf("build aborted: %w", err)
	}

	pages := make([]*repository.Page, len(uids)+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.BuildConcurrency)

	g.Go(func() error {
		page, err := p.render(gctx, routeHome, repository.HomeKey, p.renderHome)
		pages[0] = page
		return err
	})
	for i, uid := range uids {
		i, uid := i, uid
		g.Go(func() error {
			page, err := p.render(gctx, routePost, repository.PostKey(uid), p.renderPost(uid))
			pages[i+1] = page
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build aborted: %w", err)
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(p.opts.BuildConcurrency)
	for _, page := range pages {
		page := page
		g.Go(func() error { return p.store.Put(gctx, page) })
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to publish pages: %w", err)
	}

	report := &BuildReport{Pages: len(pages), Posts: uids, Duration: p.opts.Now().Sub(start)}
	logger.Info("build completed", "pages", report.Pages, "duration", report.Duration)
	return report, nil
}

// トップページを配信
func (p *Publisher) Home(ctx context.Context) (*Result, error) {
	return p.serve(ctx, routeHome, repository.HomeKey, p.renderHome, 0)
}

// 記事ページを配信 (未生成ならオンデマンド生成)
func (p *Publisher) Post(ctx context.Context, uid string) (*Result, error) {
	if uid == "" || strings.ContainsAny(uid, "/\\") || strings.Contains(uid, "..") {
		return nil, fmt.Errorf("post %q: %w", uid, prismic.ErrNotFound)
	}
	return p.serve(ctx, routePost, repository.PostKey(uid), p.renderPost(uid), p.opts.FallbackWait)
}

// 「もっと読む」の続きを取得
func (p *Publisher) LoadMore(ctx context.Context, cursor string) (*render.LoadMoreResponse, error) {
	page, err := p.home.LoadMore(ctx, cursor)
	if err != nil {
		return nil, err
	}
	resp := p.views.LoadMore(page)
	return &resp, nil
}

// バックグラウンドの生成を待つ
func (p *Publisher) Wait() {
	p.wg.Wait()
}

type generator func(ctx context.Context) ([]byte, error)

func (p *Publisher) renderHome(ctx context.Context) ([]byte, error) {
	page, err := p.home.Initial(ctx)
	if err != nil {
		return nil, err
	}
	return p.views.Home(page)
}

func (p *Publisher) renderPost(uid string) generator {
	return func(ctx context.Context) ([]byte, error) {
		page, err := p.post.Get(ctx, uid)
		if err != nil {
			return nil, err
		}
		return p.views.Post(page)
	}
}

func (p *Publisher) serve(ctx context.Context, route, key string, gen generator, fallbackWait time.Duration) (*Result, error) {
	stored, err := p.store.Get(ctx, key)
	switch {
	case err == nil:
		if p.isStale(stored) {
			p.generateShared(ctx, route, key, gen)
			metrics.ObservePageServed(route, string(StateStale))
			return &Result{Body: stored.Body, GeneratedAt: stored.GeneratedAt, State: StateStale}, nil
		}
		metrics.ObservePageServed(route, string(StateFresh))
		return &Result{Body: stored.Body, GeneratedAt: stored.GeneratedAt, State: StateFresh}, nil
	case errors.Is(err, repository.ErrPageNotFound):
	default:
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	ch := p.generateShared(ctx, route, key, gen)

	var timeout <-chan time.Time
	if fallbackWait > 0 {
		timer := time.NewTimer(fallbackWait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, prismic.ErrNotFound) {
				metrics.ObservePageServed(route, "not_found")
			}
			return nil, res.Err
		}
		page := res.Val.(*repository.Page)
		metrics.ObservePageServed(route, string(StateGenerated))
		return &Result{Body: page.Body, GeneratedAt: page.GeneratedAt, State: StateGenerated}, nil
	case <-timeout:
		body, err := p.views.Fallback()
		if err != nil {
			return nil, err
		}
		metrics.ObservePageServed(route, string(StateFallback))
		return &Result{Body: body, State: StateFallback}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Publisher) isStale(page *repository.Page) bool {
	return p.opts.Revalidate > 0 && p.opts.Now().Sub(page.GeneratedAt) > p.opts.Revalidate
}

// 同じキーの生成は 1 回にまとめ、呼び出し元が去っても最後まで続ける
func (p *Publisher) generateShared(ctx context.Context, route, key string, gen generator) <-chan singleflight.Result {
	p.wg.Add(1)
	shared := p.group.DoChan(key, func() (any, error) {
		return p.generate(context.WithoutCancel(ctx), route, key, gen)
	})

	out := make(chan singleflight.Result, 1)
	go func() {
		defer p.wg.Done()
		out <- <-shared
	}()
	return out
}

func (p *Publisher) generate(ctx context.Context, route, key string, gen generator) (*repository.Page, error) {
	page, err := p.render(ctx, route, key, gen)
	if err != nil {
		return nil, err
	}

	// 保存に失敗しても生成したページは返す
	if err := p.store.Put(ctx, page); err != nil {
		logger.Error("failed to publish generated page", "key", key, "error", err)
	}
	return page, nil
}

func (p *Publisher) render(ctx context.Context, route, key string, gen generator) (*repository.Page, error) {
	body, err := gen(ctx)
	metrics.ObservePageGenerated(route, err)
	if err != nil {
		if errors.Is(err, prismic.ErrNotFound) {
			logger.Info("page source not found", "key", key)
		} else {
			logger.Error("failed to generate page", "key", key, "error", err)
		}
		return nil, err
	}

	return &repository.Page{
		Key:         key,
		Body:        body,
		ContentType: htmlContentType,
		GeneratedAt: p.opts.Now(),
	}, nil
}
