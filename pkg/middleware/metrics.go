package middleware

import (
	"net/http"
	"time"

	"github.com/secom-mes/mes-engine/pkg/metrics"
)

// unmatchedRoute labels requests no mux pattern matched.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies by mux pattern. It must wrap
// the ServeMux directly: the mux sets Request.Pattern on the request it
// receives, and an intermediate r.WithContext would hide it.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		metrics.RecordAPIRequest(r.Method, route, wrapped.statusCode, time.Since(start))
	})
}
