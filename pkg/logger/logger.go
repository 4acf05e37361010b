package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// 環境とレベルに応じてロガーを差し替える
func Setup(env, level string) *slog.Logger {
	Logger = New(os.Stdout, env, level)
	slog.SetDefault(Logger)
	return Logger
}

// ロガーを生成 (local はテキスト、それ以外は JSON)
func New(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(env, level)}

	switch env {
	case envDev, envProd:
		return slog.New(slog.NewJSONHandler(w, opts))
	default:
		return slog.New(slog.NewTextHandler(w, opts))
	}
}

func parseLevel(env, level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == envProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// 情報ログ
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// 警告ログ
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// エラーログ
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// デバッグログ
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
