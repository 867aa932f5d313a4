package handler

import (
	"net/http"

	"github.com/braiatenebras/trabalhomobile-bryan/internal/infra/resilience"

	"go.uber.org/zap"
)

// BulkheadMiddleware caps in-flight API requests. Requests beyond the cap
// are rejected right away with 503 instead of queueing.
func BulkheadMiddleware(bulkhead *resilience.Bulkhead, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !bulkhead.TryAcquire() {
				logger.Warn("bulkhead: rejecting request",
					zap.String("path", r.URL.Path),
					zap.Int("in_use", bulkhead.InUse()),
				)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusServiceUnavailable, "server busy, try again")
				return
			}
			defer bulkhead.Release()
			next.ServeHTTP(w, r)
		})
	}
}
