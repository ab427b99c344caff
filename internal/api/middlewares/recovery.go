package middlewares

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/5w1tchy/locallibrary/internal/logger"
)

// Recovery turns a panic into a 500 page and logs it with the request logger.
func Recovery(fail Failure) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					rid := GetRequestID(r)
					if rid == "" {
						rid = "unknown"
					}
					logger.FromContext(r.Context()).Error("panic recovered", fmt.Errorf("%v", rec), logger.Fields{
						"request_id": rid,
						"method":     r.Method,
						"path":       r.URL.Path,
						"stack":      string(debug.Stack()),
					})
					// never expose the panic value
					fail.write(w, r, http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
