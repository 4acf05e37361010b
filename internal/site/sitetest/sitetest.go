// sitetest はテスト用のコンテンツソースと Publisher を提供する。
package sitetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"spacetraveling/internal/home"
	"spacetraveling/internal/post"
	"spacetraveling/internal/prismic"
	"spacetraveling/internal/render"
	"spacetraveling/internal/repository"
	"spacetraveling/internal/richtext"
	"spacetraveling/internal/site"
)

// メモリ上のコンテンツソース (home.Gateway と post.Gateway を満たす)
type Source struct {
	mu sync.Mutex

	posts   map[string]string
	order   []string
	cursors map[string]*prismic.Response

	// 設定するとそのエラーを返す
	ListErr  error
	GetErr   error
	FetchErr error

	// 設定すると GetByIdentifier がこのチャネルを待つ
	Block chan struct{}

	gets map[string]int
}

func NewSource() *Source {
	return &Source{
		posts:   make(map[string]string),
		cursors: make(map[string]*prismic.Response),
		gets:    make(map[string]int),
	}
}

// 記事を追加 (追加順が新しい順)
func (s *Source) AddPost(uid, title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := fmt.Sprintf(`{
  "uid": %q, "type": "posts", "first_publication_date": "2021-03-25T19:25:28+0000",
  "data": {
    "title": %q, "subtitle": "Subtitle of %s", "author": "Joseph Oliveira",
    "banner": {"url": "https://images.prismic.io/banner.png"},
    "content": [{"heading": "Heading", "body": [{"type": "paragraph", "text": %q, "spans": []}]}]
  }
}`, uid, title, uid, body)
	s.posts[uid] = raw
	s.order = append(s.order, uid)
}

// カーソルに対応するページを登録
func (s *Source) AddCursor(cursor, next string, uids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[cursor] = s.responseLocked(next, uids)
}

// uid ごとの取得回数
func (s *Source) Gets(uid string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[uid]
}

func (s *Source) QueryList(_ context.Context, pageSize int) (*prismic.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	uids := s.order
	next := ""
	if len(uids) > pageSize {
		uids = uids[:pageSize]
		next = "https://spacetraveling.cdn.prismic.io/api/v2/documents/search?page=2"
	}
	return s.responseLocked(next, uids), nil
}

func (s *Source) FetchByCursor(_ context.Context, cursor string) (*prismic.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	resp, ok := s.cursors[cursor]
	if !ok {
		return nil, fmt.Errorf("cursor %q: %w", cursor, prismic.ErrInvalidCursor)
	}
	return resp, nil
}

func (s *Source) QueryAllIdentifiers(_ context.Context, _ string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return append([]string(nil), s.order...), nil
}

func (s *Source) GetByIdentifier(ctx context.Context, documentType, uid string) (*prismic.Document, error) {
	s.mu.Lock()
	s.gets[uid]++
	block := s.Block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	raw, ok := s.posts[uid]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", documentType, uid, prismic.ErrNotFound)
	}
	var d prismic.Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Source) responseLocked(next string, uids []string) *prismic.Response {
	resp := &prismic.Response{Page: 1, ResultsPerPage: len(uids)}
	if next != "" {
		resp.NextPage = &next
	}
	for _, uid := range uids {
		var d prismic.Document
		if raw, ok := s.posts[uid]; ok {
			_ = json.Unmarshal([]byte(raw), &d)
		} else {
			d = prismic.Document{UID: uid, Type: post.DocumentType, Data: json.RawMessage(`{"title":"` + uid + `"}`)}
		}
		resp.Results = append(resp.Results, d)
	}
	return resp
}

// ソースと一時ディレクトリのストアで Publisher を作る
func NewPublisher(t *testing.T, src *Source, opts site.Options) (*site.Publisher, *repository.FSStore) {
	t.Helper()

	store, err := repository.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	views, err := render.New(render.Options{})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	pub := site.New(home.New(src, 2), post.New(src, richtext.NewHTMLRenderer()), views, store, opts)
	t.Cleanup(pub.Wait)
	return pub, store
}
