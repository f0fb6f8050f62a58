package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/prometheus"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, nil)
	require.NoError(t, err)
	m := prometheus.NewAppMetrics(collector)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/v1/charts/{name}/figure", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/charts/team/figure", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/charts/aapl/figure", nil))

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(),
		`test_http_requests_total{method="GET",route="/api/v1/charts/{name}/figure",status_code="404"} 2`)
	assert.Contains(t, rec.Body.String(), `test_http_active_requests 0`)
}

func TestMetrics_NilIsPassThrough(t *testing.T) {
	called := false
	h := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}
