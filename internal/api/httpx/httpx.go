package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/5w1tchy/locallibrary/internal/api/apperr"
	"github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/web/i18n"
	"github.com/5w1tchy/locallibrary/internal/web/paginate"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

// Renderer is what handlers need from the template layer.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, c view.Context) error
}

// Pages glues request state to the renderer.
type Pages struct {
	Renderer Renderer
}

// Context assembles the view context for r. page may be nil for pages that
// are not paginated.
func (p *Pages) Context(r *http.Request, page *paginate.Page, data any) view.Context {
	return view.Context{
		Viewer:    middlewares.ViewerFrom(r.Context()),
		Path:      r.URL.Path,
		CSRFToken: middlewares.CSRFToken(r.Context()),
		Locale:    i18n.FromContext(r.Context()),
		Page:      page,
		Data:      data,
	}
}

func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, name string, page *paginate.Page, data any) {
	if err := p.Renderer.Render(w, status, name, p.Context(r, page, data)); err != nil {
		logger.FromContext(r.Context()).Error("render failed", err, logger.Fields{"page": name})
		if name != view.PageError {
			p.Error(w, r, err)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Error renders the error page for err. Anything that is not already a
// Problem is logged and shown as a 500.
func (p *Pages) Error(w http.ResponseWriter, r *http.Request, err error) {
	prob := apperr.From(err)
	var known apperr.Problem
	if prob.Status >= http.StatusInternalServerError || !errors.As(err, &known) {
		logger.FromContext(r.Context()).Error("request failed", err, logger.Fields{
			"path":   r.URL.Path,
			"status": prob.Status,
		})
	}
	p.Render(w, r, prob.Status, view.PageError, nil, view.ErrorData{
		Status: prob.Status,
		Title:  prob.Title,
		Detail: prob.Detail,
	})
}

// Fail is the middlewares.Failure used across the router.
func (p *Pages) Fail(w http.ResponseWriter, r *http.Request, status int) {
	var prob apperr.Problem
	switch status {
	case http.StatusNotFound:
		prob = apperr.NotFound()
	case http.StatusForbidden:
		prob = apperr.Forbidden()
	case http.StatusTooManyRequests:
		prob = apperr.New(status, "Too many requests. Try again later.")
	case http.StatusInternalServerError:
		prob = apperr.Internal()
	default:
		prob = apperr.New(status, "")
	}
	p.Render(w, r, status, view.PageError, nil, view.ErrorData{Status: prob.Status, Title: prob.Title, Detail: prob.Detail})
}

// FormExpired backs the CSRF check, whose only rejection is a stale or
// missing form token.
func (p *Pages) FormExpired(w http.ResponseWriter, r *http.Request, status int) {
	prob := apperr.New(status, "The form has expired. Reload the page and try again.")
	p.Render(w, r, status, view.PageError, nil, view.ErrorData{Status: prob.Status, Title: prob.Title, Detail: prob.Detail})
}

// NotFound matches http.HandlerFunc so it can back the mux's catch-all.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.Fail(w, r, http.StatusNotFound)
}

// Redirect is a 302 after a successful form post.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
