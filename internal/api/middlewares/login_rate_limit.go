package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/locallibrary/internal/logger"
)

// LoginRateLimit caps login POSTs per client IP within window. Without Redis
// it is a no-op.
func LoginRateLimit(rdb *redis.Client, max int, window time.Duration, fail Failure) Middleware {
	return func(next http.Handler) http.Handler {
		if rdb == nil || max <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := "rl:login:" + ip

			// INCR and set TTL if new
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logger.FromContext(ctx).Warn("login limiter unavailable", logger.Fields{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, window).Err()
			}
			if n > int64(max) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				logger.FromContext(ctx).Info("login attempts exceeded", logger.Fields{"ip": ip, "attempts": n})
				fail.write(w, r, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
