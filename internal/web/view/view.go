package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/web/i18n"
	"github.com/5w1tchy/locallibrary/internal/web/paginate"
	"github.com/5w1tchy/locallibrary/internal/web/static"
	"github.com/5w1tchy/locallibrary/internal/web/urls"
)

//go:embed templates
var templatesFS embed.FS

// Page template names.
const (
	PageIndex        = "index"
	PageBookList     = "book_list"
	PageBookDetail   = "book_detail"
	PageAuthorList   = "author_list"
	PageAuthorDetail = "author_detail"
	PageAuthorForm   = "author_form"
	PageAuthorDelete = "author_confirm_delete"
	PageBorrowed     = "bookinstance_list_borrowed_user"
	PageMarkReturned = "bookinstance_mark_as_returned"
	PageRenew        = "book_renew_librarian"
	PageLogin        = "login"
	PageLoggedOut    = "logged_out"
	PageError        = "error"
)

// Context is everything a page render may look at. Handlers build it
// explicitly; templates never reach for request state on their own.
type Context struct {
	Viewer    models.Viewer
	Path      string
	CSRFToken string
	Locale    i18n.Locale
	Page      *paginate.Page
	Data      any
}

// T translates key (the English source string) for the request locale.
func (c Context) T(key string, args ...any) string {
	if c.Locale.Printer == nil {
		if len(args) == 0 {
			return key
		}
		return fmt.Sprintf(key, args...)
	}
	return c.Locale.Printer.Sprintf(key, args...)
}

func (c Context) Lang() string {
	if c.Locale.Printer == nil {
		return "en"
	}
	return c.Locale.Tag.String()
}

func (c Context) IsPaginated() bool { return c.Page != nil && c.Page.IsPaginated() }

// PageURL links to page n of the current listing, keeping an explicit
// language choice.
func (c Context) PageURL(n int) string {
	q := url.Values{"page": {strconv.Itoa(n)}}
	if c.Locale.Explicit {
		q.Set("lang", c.Locale.Tag.String())
	}
	return c.Path + "?" + q.Encode()
}

// PageLabel is "Page n of m". The numbers go in as strings so the printer
// does not group their digits.
func (c Context) PageLabel() string {
	if c.Page == nil {
		return ""
	}
	return c.T("Page %s of %s", strconv.Itoa(c.Page.Number), strconv.Itoa(c.Page.NumPages))
}

// LoginURL sends the visitor back to the current page after logging in.
func (c Context) LoginURL() string {
	return urls.LoginWithNext(c.Path)
}

// Renderer holds one parsed template set per page: the shared layout and
// partials plus the page's own regions.
type Renderer struct {
	pages map[string]*template.Template
}

func New(assets static.Resolver) (*Renderer, error) {
	funcs := template.FuncMap{
		"url":    urls.Reverse,
		"static": assets.URL,
		"date":   formatDate,
	}

	files, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/base.html", "templates/partials/*.html", f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, c Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", c); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func formatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format("2006-01-02")
	case *time.Time:
		if d == nil {
			return ""
		}
		return formatDate(*d)
	default:
		return ""
	}
}
