package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordCountsLifecycleEvents(t *testing.T) {
	m := NewMetrics()
	m.Record("match_approved", 3)
	m.Record("match_approved", 2)
	m.Record("match_approved", 0)

	if got := testutil.ToFloat64(m.lifecycleEvents.WithLabelValues("match_approved")); got != 5 {
		t.Fatalf("expected 5 approvals, got %v", got)
	}
}

func TestMetrics_HandlerExposesHTTPSeries(t *testing.T) {
	m := NewMetrics()
	m.ObserveHTTP(http.MethodGet, "GET /v1/players", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `pingpong_http_requests_total{code="200",method="GET",route="GET /v1/players"} 1`) {
		t.Fatalf("missing request counter in output:\n%s", rec.Body.String())
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.Record("x", 1)
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
}
