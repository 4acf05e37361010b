// metrics はコンテンツ API 呼び出しとページ生成の Prometheus メトリクス。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spacetraveling"

var (
	contentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_requests_total",
		Help:      "Content API requests by operation and outcome.",
	}, []string{"op", "outcome"})

	contentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "content_request_duration_seconds",
		Help:      "Content API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	pagesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_generated_total",
		Help:      "Generated pages by route and outcome.",
	}, []string{"route", "outcome"})

	pagesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_served_total",
		Help:      "Served pages by route and state (fresh, stale, generated, fallback, not_found).",
	}, []string{"route", "state"})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// コンテンツ API 呼び出しを記録
func ObserveContentRequest(op string, err error, d time.Duration) {
	contentRequests.WithLabelValues(op, outcome(err)).Inc()
	contentDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ページ生成を記録
func ObservePageGenerated(route string, err error) {
	pagesGenerated.WithLabelValues(route, outcome(err)).Inc()
}

// ページ配信を記録
func ObservePageServed(route, state string) {
	pagesServed.WithLabelValues(route, state).Inc()
}
