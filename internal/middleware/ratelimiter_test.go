package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestRateLimitMiddleware(t *testing.T) {
	// One request per second with a burst of two: the third immediate
	// request must be rejected.
	limiter := rate.NewLimiter(1, 2)
	handler := RateLimitMiddleware(limiter, nil, "login_rate_limited_total")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	codes := make([]int, 3)
	for i := range codes {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes[i] = rr.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("requests within the burst got %d, %d, want 200, 200", codes[0], codes[1])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("request over the burst got %d, want %d", codes[2], http.StatusTooManyRequests)
	}
}
