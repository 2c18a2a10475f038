package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/infra/ratelimit"
)

// KeyFunc 決定限流的key，例如 user id 或 ip
type KeyFunc func(r *http.Request) string

func RemoteAddrKey(r *http.Request) string {
	return r.RemoteAddr
}

// NewRateLimitMiddleware scope 用來區分不同路由的 bucket
func NewRateLimitMiddleware(limiter ratelimit.Limiter, scope string, keyFunc KeyFunc) func(http.Handler) http.Handler {
	if keyFunc == nil {
		keyFunc = RemoteAddrKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), scope+":"+keyFunc(r)) {
				api.ErrorJSON(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
