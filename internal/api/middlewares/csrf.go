package middlewares

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

type CSRFOptions struct {
	TokenHeader    string        // Default: "X-CSRF-Token"
	FormField      string        // Default: "csrf_token"
	CookieName     string        // Default: "csrftoken"
	CookiePath     string        // Default: "/"
	CookieSecure   bool          // true in production with HTTPS
	CookieSameSite http.SameSite // Default: SameSiteLaxMode
	Failure        Failure
}

func DefaultCSRFOptions() CSRFOptions {
	return CSRFOptions{
		TokenHeader:    "X-CSRF-Token",
		FormField:      "csrf_token",
		CookieName:     "csrftoken",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
	}
}

// CSRF is a double-submit check: every response carries a token cookie, the
// same token is exposed to templates through the context, and unsafe methods
// must echo it in a form field or header.
func CSRF(opts CSRFOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(opts.CookieName); err == nil && validTokenShape(c.Value) {
				token = c.Value
			}
			if token == "" {
				token = generateCSRFToken()
				http.SetCookie(w, &http.Cookie{
					Name:     opts.CookieName,
					Value:    token,
					Path:     opts.CookiePath,
					Secure:   opts.CookieSecure,
					HttpOnly: true,
					SameSite: opts.CookieSameSite,
				})
			}
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyCSRF, token))

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(opts.TokenHeader)
			if provided == "" {
				provided = r.PostFormValue(opts.FormField)
			}
			if !isValidCSRFToken(token, provided) {
				opts.Failure.write(w, r, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFToken returns the token for the current request, for embedding in forms.
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyCSRF).(string)
	return v
}

func generateCSRFToken() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func validTokenShape(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func isValidCSRFToken(expected, provided string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
