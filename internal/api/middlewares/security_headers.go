package middlewares

import (
	"net/http"
	"strings"
)

type SecurityOptions struct {
	// Strict adds cross-origin isolation headers.
	Strict bool
	// ImageSources are extra img-src origins, e.g. the cover bucket.
	ImageSources []string
}

func SecurityHeaders(opts SecurityOptions) Middleware {
	imgSrc := strings.Join(append([]string{"'self'", "data:"}, opts.ImageSources...), " ")
	csp := strings.Join([]string{
		"default-src 'self'",
		"img-src " + imgSrc,
		"style-src 'self'",
		"script-src 'none'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-DNS-Prefetch-Control", "off")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "same-origin")
			// pages vary per visitor; static assets override this
			h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")

			if r.TLS != nil {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}
			h.Set("Content-Security-Policy", csp)

			if opts.Strict {
				h.Set("Cross-Origin-Opener-Policy", "same-origin")
				h.Set("Cross-Origin-Resource-Policy", "same-origin")
			}
			h.Set("Server", "")

			next.ServeHTTP(w, r)
		})
	}
}
