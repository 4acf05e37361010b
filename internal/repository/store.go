package repository

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// ページ未生成
var ErrPageNotFound = errors.New("page not found")

// 生成済みページ
type Page struct {
	Key         string
	Body        []byte
	ContentType string
	GeneratedAt time.Time
}

// 生成ページの保存先
type PageStore interface {
	Get(ctx context.Context, key string) (*Page, error)
	Put(ctx context.Context, page *Page) error
}

const (
	HomeKey         = "index.html"
	htmlContentType = "text/html; charset=utf-8"
)

// 記事ページのキー (静的ホスティングでそのまま配信できるパス)
func PostKey(uid string) string {
	return path.Join("post", uid, "index.html")
}

// ../ や空要素を含むキーを拒否
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return fmt.Errorf("invalid page key %q", key)
	}
	return nil
}
