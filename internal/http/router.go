package http

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spacetraveling/internal/http/handlers"
	"spacetraveling/internal/http/middleware"
	"spacetraveling/internal/site"
)

type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// nil なら常に ready
	Ready *atomic.Bool
}

// ページ配信とヘルスチェック、メトリクスのルーター
func NewRouter(pub *site.Publisher, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready == nil || opts.Ready.Load() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Recover(),
			middleware.RequestID(),
			middleware.Logging(opts.Logger),
			middleware.Timeout(opts.Timeout),
		)

		h := handlers.New(pub)
		r.Get("/", h.Home)
		r.Get("/post/{uid}", h.Post)
		r.Get("/api/posts", h.LoadMore)
		r.NotFound(h.NotFound)
		r.MethodNotAllowed(h.MethodNotAllowed)
	})

	return r
}
