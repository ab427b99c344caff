package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/5w1tchy/locallibrary/internal/api/httpx"
)

// Pinger is anything with a liveness check, e.g. *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health: GET /healthz
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "database": "unreachable"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
