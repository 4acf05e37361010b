package home

import (
	"context"
	"errors"
	"sync"

	"spacetraveling/internal/model"
)

// 読み込み中に再度要求された
var ErrInFlight = errors.New("load more already in progress")

// 閲覧セッション中の一覧とカーソル
//
// LoadMore は同時に 1 つだけ進行し、成功したときだけ一覧とカーソルを置き換える。
type Feed struct {
	controller *Controller

	mu       sync.Mutex
	posts    []model.PostSummary
	next     string
	inFlight bool
}

func NewFeed(controller *Controller, initial *model.PostPagination) *Feed {
	f := &Feed{controller: controller}
	if initial != nil {
		f.posts = append(f.posts, initial.Results...)
		f.next = initial.NextPage
	}
	return f
}

// 表示中の記事 (コピー)
func (f *Feed) Posts() []model.PostSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.PostSummary(nil), f.posts...)
}

func (f *Feed) NextPage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next
}

// 「もっと読む」を表示するか
func (f *Feed) HasMore() bool {
	return f.NextPage() != ""
}

// 次ページを末尾に追加し、追加した記事を返す
func (f *Feed) LoadMore(ctx context.Context) ([]model.PostSummary, error) {
	f.mu.Lock()
	if f.next == "" {
		f.mu.Unlock()
		return nil, ErrExhausted
	}
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	f.inFlight = true
	cursor := f.next
	f.mu.Unlock()

	page, err := f.controller.LoadMore(ctx, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		return nil, err
	}

	f.posts = append(f.posts, page.Results...)
	f.next = page.NextPage
	return page.Results, nil
}
