// post は記事ページ (パス列挙と記事ごとの生成) を組み立てる。
package post

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"spacetraveling/internal/model"
	"spacetraveling/internal/prismic"
	"spacetraveling/internal/richtext"
	"spacetraveling/pkg/logger"
)

// 記事のドキュメント型
const DocumentType = "posts"

// 記事ページに必要なゲートウェイの操作
type Gateway interface {
	QueryAllIdentifiers(ctx context.Context, documentType string) ([]string, error)
	GetByIdentifier(ctx context.Context, documentType, uid string) (*prismic.Document, error)
}

// 表示用の記事ページ
type Page struct {
	Post        *model.PostDetail
	ReadingTime int
	Sections    []Section
}

// 本文を HTML にした見出し単位のセクション
type Section struct {
	Heading string
	Body    template.HTML
}

type Controller struct {
	gateway  Gateway
	renderer richtext.Renderer
}

func New(gateway Gateway, renderer richtext.Renderer) *Controller {
	return &Controller{gateway: gateway, renderer: renderer}
}

// ビルド時に生成するパス (それ以外も初回リクエストで生成する)
func (c *Controller) Paths(ctx context.Context) ([]string, error) {
	uids, err := c.gateway.QueryAllIdentifiers(ctx, DocumentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list post paths: %w", err)
	}
	return uids, nil
}

// 記事ページを生成 (見つからなければ prismic.ErrNotFound)
func (c *Controller) Get(ctx context.Context, uid string) (*Page, error) {
	doc, err := c.gateway.GetByIdentifier(ctx, DocumentType, uid)
	if err != nil {
		if errors.Is(err, prismic.ErrNotFound) {
			logger.Info("post not found", "uid", uid)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	detail, err := model.DetailFromDocument(*doc)
	if err != nil {
		return nil, fmt.Errorf("failed to shape post %q: %w", uid, err)
	}

	page := &Page{
		Post:        detail,
		ReadingTime: detail.ReadingTime(),
		Sections:    make([]Section, 0, len(detail.Data.Content)),
	}
	for _, s := range detail.Data.Content {
		page.Sections = append(page.Sections, Section{Heading: s.Heading, Body: c.renderer.AsHTML(s.Body)})
	}

	logger.Info("built post page", "uid", uid, "sections", len(page.Sections), "reading_time", page.ReadingTime)
	return page, nil
}
