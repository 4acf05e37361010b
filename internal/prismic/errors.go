package prismic

import (
	"errors"
	"fmt"
)

var (
	// 該当ドキュメントなし
	ErrNotFound = errors.New("document not found")
	// クライアント設定の不備
	ErrConfiguration = errors.New("invalid prismic configuration")
	// エンドポイント外を指すカーソル
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)

// API への到達・レスポンスの解析に失敗
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("prismic %s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// API が 2xx 以外を返した
type SourceError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("prismic %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}
