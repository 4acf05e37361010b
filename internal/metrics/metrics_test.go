package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveContentRequest(t *testing.T) {
	before := testutil.ToFloat64(contentRequests.WithLabelValues("query", "error"))

	ObserveContentRequest("query", errors.New("boom"), 10*time.Millisecond)
	ObserveContentRequest("query", nil, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(contentRequests.WithLabelValues("query", "error")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(contentRequests.WithLabelValues("query", "ok")), 1.0)
}

func TestObservePages(t *testing.T) {
	ObservePageGenerated("post", nil)
	ObservePageServed("home", "stale")

	assert.GreaterOrEqual(t, testutil.ToFloat64(pagesGenerated.WithLabelValues("post", "ok")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(pagesServed.WithLabelValues("home", "stale")), 1.0)
}
