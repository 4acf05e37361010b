package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"spacetraveling/internal/bootstrap"
	"spacetraveling/internal/config"
	"spacetraveling/internal/site"
	"spacetraveling/pkg/logger"
)

type handler struct {
	pub *site.Publisher
}

// スケジュールで全ページを作り直す (失敗時は前回のページが残る)
func (h *handler) handleEvent(ctx context.Context, event events.CloudWatchEvent) (*site.BuildReport, error) {
	logger.Info("revalidation started", "event_id", event.ID, "time", event.Time)

	report, err := h.pub.Build(ctx)
	if err != nil {
		logger.Error("revalidation failed", "error", err)
		return nil, err
	}
	return report, nil
}

func main() {
	_ = os.Setenv("AWS_SDK_LOAD_CONFIG", "1")

	cfg := config.MustLoad("")
	logger.Setup(cfg.Env, cfg.Log.Level)

	app, err := bootstrap.New(context.Background(), cfg, bootstrap.SiteOptions(cfg))
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	h := &handler{pub: app.Publisher}
	lambda.Start(h.handleEvent)
}
