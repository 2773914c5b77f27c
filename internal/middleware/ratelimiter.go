package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/models/dto"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware rejects requests over the limiter's budget with a 429.
// Rejections are counted on rejectedMetric when a metrics sink is provided.
func RateLimitMiddleware(limiter *rate.Limiter, metrics interfaces.Metrics, rejectedMetric string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if metrics != nil {
					metrics.IncCounter(rejectedMetric)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				resp := dto.RateLimitResponse{Message: "Too many requests. Please try again later."}
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
