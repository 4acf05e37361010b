// home はトップページの記事一覧 (初期ページと「もっと読む」) を組み立てる。
package home

import (
	"context"
	"errors"
	"fmt"

	"spacetraveling/internal/model"
	"spacetraveling/internal/prismic"
	"spacetraveling/pkg/logger"
)

const DefaultPageSize = 2

// 続きのページがない
var ErrExhausted = errors.New("no more posts")

// 一覧に必要なゲートウェイの操作
type Gateway interface {
	QueryList(ctx context.Context, pageSize int) (*prismic.Response, error)
	FetchByCursor(ctx context.Context, cursor string) (*prismic.Response, error)
}

type Controller struct {
	gateway  Gateway
	pageSize int
}

func New(gateway Gateway, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{gateway: gateway, pageSize: pageSize}
}

func (c *Controller) PageSize() int { return c.pageSize }

// 生成時の初期一覧
func (c *Controller) Initial(ctx context.Context) (*model.PostPagination, error) {
	resp, err := c.gateway.QueryList(ctx, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}

	page, err := model.PaginationFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to shape posts: %w", err)
	}
	if len(page.Results) > c.pageSize {
		page.Results = page.Results[:c.pageSize]
	}

	logger.Info("built initial post list", "count", len(page.Results), "has_more", page.HasMore())
	return page, nil
}

// カーソルの続きを取得 (空カーソルは ErrExhausted)
func (c *Controller) LoadMore(ctx context.Context, cursor string) (*model.PostPagination, error) {
	if cursor == "" {
		return nil, ErrExhausted
	}

	resp, err := c.gateway.FetchByCursor(ctx, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next posts: %w", err)
	}

	page, err := model.PaginationFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to shape posts: %w", err)
	}

	logger.Info("loaded more posts", "count", len(page.Results), "has_more", page.HasMore())
	return page, nil
}
