package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, durations and in-flight requests.  Requests
// are labelled by chi route pattern so path parameters do not explode label
// cardinality; unmatched requests are labelled "unmatched".
func Metrics(m *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inflight := m.HTTPActiveRequests.WithLabelValues()
			inflight.Inc()
			defer inflight.Dec()

			start := time.Now()
			wrapped := newWrappedResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			prometheus.RecordHTTPRequest(m, r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}
