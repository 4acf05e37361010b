package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// コンテキストにリクエスト単位のロガーを格納
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// コンテキストからロガーを取得 (無ければパッケージのロガー)
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Logger
}
