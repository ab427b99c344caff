package middlewares

import (
	"net/http"
	"slices"
	"strings"
)

// HPPOptions configures HTTP parameter pollution filtering: repeated
// parameters collapse to their first value and unknown ones are dropped.
type HPPOptions struct {
	CheckQuery                  bool
	CheckBody                   bool
	CheckBodyOnlyForContentType string
	Whitelist                   []string
}

func HPP(opts HPPOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.CheckBody && r.Method == http.MethodPost && isCorrectContentType(r, opts.CheckBodyOnlyForContentType) {
				filterBodyParams(r, opts.Whitelist)
			}
			if opts.CheckQuery && r.URL.RawQuery != "" {
				filterQueryParams(r, opts.Whitelist)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isCorrectContentType(r *http.Request, contentType string) bool {
	return strings.Contains(r.Header.Get("Content-Type"), contentType)
}

// filterBodyParams parses the form up front and rewrites both r.PostForm and
// r.Form, so later FormValue/PostFormValue calls only see clean values.
func filterBodyParams(r *http.Request, whitelist []string) {
	if err := r.ParseForm(); err != nil {
		return
	}
	for _, form := range []map[string][]string{r.PostForm, r.Form} {
		for k, v := range form {
			if !slices.Contains(whitelist, k) {
				delete(form, k)
				continue
			}
			if len(v) > 1 {
				form[k] = v[:1]
			}
		}
	}
}

func filterQueryParams(r *http.Request, whitelist []string) {
	query := r.URL.Query()
	for k, v := range query {
		if !slices.Contains(whitelist, k) {
			query.Del(k)
			continue
		}
		if len(v) > 1 {
			query.Set(k, v[0])
		}
	}
	r.URL.RawQuery = query.Encode()
}

// DefaultHPPOptions whitelists every parameter the catalog pages read.
func DefaultHPPOptions() HPPOptions {
	return HPPOptions{
		CheckQuery:                  true,
		CheckBody:                   true,
		CheckBodyOnlyForContentType: "application/x-www-form-urlencoded",
		Whitelist: []string{
			// paging / locale / redirects
			"page", "lang", "next",

			// accounts
			"username", "password", "csrf_token",

			// authors
			"first_name", "last_name", "date_of_birth", "date_of_death",

			// loans
			"renewal_date",
		},
	}
}
