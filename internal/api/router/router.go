// Package router mounts every page and wraps the mux in the middleware chain.
package router

import (
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/locallibrary/internal/api/handlers/catalog"
	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	mw "github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/auth"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/web/i18n"
	"github.com/5w1tchy/locallibrary/internal/web/static"
	"github.com/5w1tchy/locallibrary/internal/web/urls"
)

// Deps is everything the router wires together. Redis is optional: without
// it rate limiting is off.
type Deps struct {
	Pages      *httpx.Pages
	Catalog    *catalog.Handler
	Auth       *auth.Handler
	Viewers    mw.ViewerLoader
	Translator *i18n.Translator
	DB         catalog.Pinger
	Redis      *redis.Client

	MaxBodyBytes  int64
	SecureCookies bool
	LoginAttempts int
	LoginWindow   time.Duration
	// ImageOrigins are extra img-src origins (cover bucket, asset CDN).
	ImageOrigins []string
}

// Router builds the mux and its middleware chain.
func Router(d Deps) http.Handler {
	mux := http.NewServeMux()
	mount(mux, d)

	csrf := mw.DefaultCSRFOptions()
	csrf.CookieSecure = d.SecureCookies
	csrf.Failure = d.Pages.FormExpired

	chain := []mw.Middleware{
		mw.RequestID,
		logger.HTTPMiddleware(mw.GetRequestID),
		mw.Recovery(d.Pages.Fail),
		mw.SecurityHeaders(mw.SecurityOptions{ImageSources: d.ImageOrigins}),
		mw.ResponseTime,
		mw.Compression,
		mw.BodySizeLimit(d.MaxBodyBytes),
		d.Translator.Middleware,
	}
	if d.Redis != nil {
		tb := mw.NewRedisTokenBucket(d.Redis, 5, 20, mw.PerIPKey("tb"), d.Pages.Fail)
		sw := mw.NewRedisSlidingWindow(d.Redis, 3000, 60*time.Minute, mw.PerIPKey("sw"), d.Pages.Fail)
		chain = append(chain, tb.Middleware, sw.Middleware)
	}
	chain = append(chain,
		mw.HPP(mw.DefaultHPPOptions()),
		mw.CSRF(csrf),
		mw.LoadViewer(d.Viewers),
	)
	return mw.Apply(mux, chain...)
}

func mount(mux *http.ServeMux, d Deps) {
	c := d.Catalog
	handle := func(method, name string, h http.HandlerFunc, gates ...mw.Middleware) {
		mux.Handle(method+" "+urls.MuxPattern(name), mw.Apply(h, gates...))
	}
	perm := func(p string) mw.Middleware { return mw.RequirePermission(p, d.Pages.Fail) }

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, urls.MustReverse(urls.Index), http.StatusFound)
	})

	handle("GET", urls.Index, c.Index)
	handle("GET", urls.Books, c.BookList)
	handle("GET", urls.BookDetail, c.BookDetail)
	handle("GET", urls.BookCover, c.BookCover)
	handle("GET", urls.Authors, c.AuthorList)
	handle("GET", urls.AuthorDetail, c.AuthorDetail)

	handle("GET", urls.AuthorCreate, c.AuthorCreateForm, perm(models.PermAddAuthor))
	handle("POST", urls.AuthorCreate, c.AuthorCreate, perm(models.PermAddAuthor))
	handle("GET", urls.AuthorUpdate, c.AuthorUpdateForm, perm(models.PermChangeAuthor))
	handle("POST", urls.AuthorUpdate, c.AuthorUpdate, perm(models.PermChangeAuthor))
	handle("GET", urls.AuthorDelete, c.AuthorDeleteForm, perm(models.PermDeleteAuthor))
	handle("POST", urls.AuthorDelete, c.AuthorDelete, perm(models.PermDeleteAuthor))

	handle("GET", urls.MyBorrowed, c.MyBorrowed, mw.RequireLogin)
	handle("GET", urls.MarkReturned, c.MarkReturnedForm, perm(models.PermMarkReturned))
	handle("POST", urls.MarkReturned, c.MarkReturned, perm(models.PermMarkReturned))
	handle("GET", urls.RenewCopy, c.RenewForm, perm(models.PermRenew))
	handle("POST", urls.RenewCopy, c.Renew, perm(models.PermRenew))

	handle("GET", urls.Login, d.Auth.LoginForm)
	handle("POST", urls.Login, d.Auth.Login, mw.LoginRateLimit(d.Redis, d.LoginAttempts, d.LoginWindow, d.Auth.Throttled))
	handle("POST", urls.Logout, d.Auth.Logout)

	mux.Handle("GET "+static.Prefix, static.Handler())
	if d.DB != nil {
		mux.Handle("GET /healthz", catalog.Health(d.DB))
	}
	mux.HandleFunc("/", d.Pages.NotFound)
}

// Origins reduces URLs to scheme://host for the CSP, skipping blanks and
// anything unparsable.
func Origins(raw ...string) []string {
	var out []string
	for _, s := range raw {
		u, err := url.Parse(s)
		if s == "" || err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		out = append(out, u.Scheme+"://"+u.Host)
	}
	return out
}
