package middleware

import (
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/storefront/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// MetricsMiddleware 把每個請求的量測寫進環形緩衝
// buffer是明確注入的handle, 非全域單例
func MetricsMiddleware(buffer *metrics.Buffer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{ResponseWriter: w}

			start := time.Now()
			next.ServeHTTP(recoder, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			buffer.Record(metrics.Sample{
				Route:    route,
				Method:   r.Method,
				Status:   recoder.Status(),
				Duration: time.Since(start),
				At:       start,
			})
		})
	}
}
