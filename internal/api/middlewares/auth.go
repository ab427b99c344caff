package middlewares

import (
	"net/http"

	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/web/urls"
)

// ViewerLoader resolves who is making the request, typically from the
// session cookie. It may write cookies on w.
type ViewerLoader interface {
	Viewer(w http.ResponseWriter, r *http.Request) (models.Viewer, error)
}

// LoadViewer attaches the viewer to the request context. A loader error is
// logged and the request continues anonymously.
func LoadViewer(loader ViewerLoader) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := loader.Viewer(w, r)
			if err != nil {
				logger.FromContext(r.Context()).Warn("viewer lookup failed", logger.Fields{"error": err.Error()})
				v = models.Viewer{}
			}
			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), v)))
		})
	}
}

// RequireLogin redirects anonymous visitors to the login page with the
// current URL as the return target.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ViewerFrom(r.Context()).IsAuthenticated() {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission lets through viewers holding perm. Anonymous visitors
// are sent to login; signed-in viewers without it get 403.
func RequirePermission(perm string, fail Failure) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := ViewerFrom(r.Context())
			switch {
			case !v.IsAuthenticated():
				redirectToLogin(w, r)
			case !v.HasPerm(perm):
				fail.write(w, r, http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.RequestURI()
	if next == "" {
		next = r.URL.Path
	}
	http.Redirect(w, r, urls.LoginWithNext(next), http.StatusFound)
}
