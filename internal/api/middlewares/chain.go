package middlewares

import "net/http"

// Middleware is the shape every wrapper in this package has.
type Middleware func(http.Handler) http.Handler

// Apply wraps h so the first middleware listed runs first.
func Apply(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// Failure renders an error page for status. Middlewares that reject a request
// call it so the visitor gets the site's error page instead of plain text.
type Failure func(w http.ResponseWriter, r *http.Request, status int)

func (f Failure) write(w http.ResponseWriter, r *http.Request, status int) {
	if f == nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	f(w, r, status)
}
