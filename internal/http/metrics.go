package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/reqflow/approvals-ui-api/internal/metrics"
)

// Metrics returns a middleware that emits a request counter and latency
// timing per request, tagged with method and status class. Pass nil to
// disable.
func Metrics(sink metrics.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			tags := map[string]string{
				"method": r.Method,
				"status": strconv.Itoa(ww.status),
			}
			sink.Count("http.requests", 1, tags)
			sink.Timing("http.request_duration", time.Since(start), map[string]string{"method": r.Method})
		})
	}
}
