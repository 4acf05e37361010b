package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"spacetraveling/internal/bootstrap"
	"spacetraveling/internal/config"
	"spacetraveling/internal/prismic"
	"spacetraveling/internal/response"
	"spacetraveling/internal/site"
	"spacetraveling/pkg/logger"
)

type handler struct {
	pub *site.Publisher
}

func (h *handler) handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := req.Path
	method := req.HTTPMethod

	log := logger.Logger.With("method", method, "path", path, "request_id", req.RequestContext.RequestID)
	ctx = logger.Into(ctx, log)

	if method != http.MethodGet && method != http.MethodHead {
		return response.MethodNotAllowed(), nil
	}

	// 簡易ルーティング
	switch {
	case path == "/" || path == "":
		res, err := h.pub.Home(ctx)
		return h.page(ctx, res, err), nil
	case strings.HasPrefix(path, "/post/"):
		uid := strings.TrimSuffix(strings.TrimPrefix(path, "/post/"), "/")
		res, err := h.pub.Post(ctx, uid)
		return h.page(ctx, res, err), nil
	case path == "/api/posts":
		resp, err := h.pub.LoadMore(ctx, req.QueryStringParameters["cursor"])
		if err != nil {
			status := site.HTTPStatus(err)
			logger.From(ctx).Warn("failed to load more posts", "status", status, "error", err)
			return response.Error(status, site.ErrorMessage(status)), nil
		}
		return response.Success(resp), nil
	default:
		status, body := h.pub.ErrorPage(prismic.ErrNotFound)
		return response.HTML(status, body, "no-store"), nil
	}
}

func (h *handler) page(ctx context.Context, res *site.Result, err error) events.APIGatewayProxyResponse {
	if err != nil {
		status, body := h.pub.ErrorPage(err)
		if status >= http.StatusInternalServerError {
			logger.From(ctx).Error("failed to serve page", "status", status, "error", err)
		}
		return response.HTML(status, body, "no-store")
	}
	return response.HTML(http.StatusOK, res.Body, h.pub.CacheControl(res))
}

func main() {
	_ = os.Setenv("AWS_SDK_LOAD_CONFIG", "1")

	cfg := config.MustLoad("")
	logger.Setup(cfg.Env, cfg.Log.Level)

	// 再検証はスケジュール実行の revalidate 関数が担う
	// 応答後は実行環境が止まるので生成完了まで待つ
	opts := bootstrap.SiteOptions(cfg)
	opts.Revalidate = 0
	opts.FallbackWait = 0

	app, err := bootstrap.New(context.Background(), cfg, opts)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	h := &handler{pub: app.Publisher}
	lambda.Start(h.handleRequest)
}
