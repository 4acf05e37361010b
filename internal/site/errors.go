package site

import (
	"context"
	"errors"
	"net/http"

	"spacetraveling/internal/home"
	"spacetraveling/internal/prismic"
	"spacetraveling/pkg/logger"
)

// クライアントが接続を閉じた
const StatusClientClosedRequest = 499

// エラーを HTTP ステータスに変換
func HTTPStatus(err error) int {
	var (
		srcErr *prismic.SourceError
		trErr  *prismic.TransportError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, prismic.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, prismic.ErrInvalidCursor), errors.Is(err, home.ErrExhausted):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &srcErr), errors.As(err, &trErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// 利用者向けの短いメッセージ
func ErrorMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not found"
	case http.StatusBadRequest:
		return "invalid cursor"
	case http.StatusBadGateway:
		return "content source unavailable"
	case http.StatusGatewayTimeout:
		return "content source timed out"
	case StatusClientClosedRequest:
		return "canceled"
	default:
		return "internal error"
	}
}

// エラー時に返すステータスと HTML (404 は専用ページ)
func (p *Publisher) ErrorPage(err error) (int, []byte) {
	status := HTTPStatus(err)

	var (
		body      []byte
		renderErr error
	)
	if status == http.StatusNotFound {
		body, renderErr = p.views.NotFound()
	} else {
		body, renderErr = p.views.Error()
	}
	if renderErr != nil {
		logger.Error("failed to render error page", "error", renderErr)
		return status, []byte(ErrorMessage(status))
	}
	return status, body
}
