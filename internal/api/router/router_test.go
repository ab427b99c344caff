package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/locallibrary/internal/api/handlers/catalog"
	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	mw "github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/auth"
	"github.com/5w1tchy/locallibrary/internal/models"
	catalogstore "github.com/5w1tchy/locallibrary/internal/store/catalog"
	"github.com/5w1tchy/locallibrary/internal/web/i18n"
	"github.com/5w1tchy/locallibrary/internal/web/static"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

// stubStore answers the home page only; any other call panics.
type stubStore struct {
	catalog.Store
}

func (stubStore) Counts(context.Context) (catalogstore.Counts, error) {
	return catalogstore.Counts{Books: 3, Copies: 6, Available: 2, Authors: 2, Genres: 4}, nil
}

type oneVisit struct{}

func (oneVisit) CountVisit(http.ResponseWriter, *http.Request) (int64, error) { return 1, nil }

// headerViewers picks the viewer from a test header.
type headerViewers struct{}

func (headerViewers) Viewer(_ http.ResponseWriter, r *http.Request) (models.Viewer, error) {
	switch r.Header.Get("X-Test-User") {
	case "lib":
		return models.Viewer{UserID: 1, Username: "lib", Permissions: map[string]struct{}{models.PermAddAuthor: {}}}, nil
	case "reader":
		return models.Viewer{UserID: 2, Username: "reader"}, nil
	}
	return models.Viewer{}, nil
}

type okDB struct{}

func (okDB) PingContext(context.Context) error { return nil }

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	rend, err := view.New(static.Resolver{})
	require.NoError(t, err)
	tr, err := i18n.New("en")
	require.NoError(t, err)
	pages := &httpx.Pages{Renderer: rend}
	return Router(Deps{
		Pages:        pages,
		Catalog:      catalog.New(stubStore{}, oneVisit{}, pages, 5),
		Auth:         auth.New(nil, nil, nil, pages),
		Viewers:      headerViewers{},
		Translator:   tr,
		DB:           okDB{},
		ImageOrigins: []string{"https://covers.example"},
	})
}

func get(t *testing.T, h http.Handler, target, user string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RootRedirectsToCatalog(t *testing.T) {
	rec := get(t, newRouter(t), "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/", rec.Header().Get("Location"))
}

func TestRouter_IndexCarriesAmbientHeaders(t *testing.T) {
	rec := get(t, newRouter(t), "/catalog/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You have visited this page 1 times.")
	assert.NotEmpty(t, rec.Header().Get(mw.RequestIDHeader))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "img-src 'self' data: https://covers.example")
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))

	var csrf bool
	for _, c := range rec.Result().Cookies() {
		csrf = csrf || c.Name == "csrftoken"
	}
	assert.True(t, csrf, "csrf cookie issued")
}

func TestRouter_Russian(t *testing.T) {
	rec := get(t, newRouter(t), "/catalog/?lang=ru", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Главная страница библиотеки")
	assert.Equal(t, "ru", rec.Header().Get("Content-Language"))
}

func TestRouter_Gates(t *testing.T) {
	h := newRouter(t)

	rec := get(t, h, "/catalog/authors/create/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/accounts/login/?next=%2Fcatalog%2Fauthors%2Fcreate%2F", rec.Header().Get("Location"))

	rec = get(t, h, "/catalog/authors/create/", "reader")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission to view this page.")

	rec = get(t, h, "/catalog/authors/create/", "lib")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="first_name"`)

	rec = get(t, h, "/catalog/mybooks/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/accounts/login/?next="))

	id := "9b2f3c1e-4a5d-4e6f-8a7b-0c1d2e3f4a5b"
	rec = get(t, h, "/catalog/books/"+id+"/renew/", "lib")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_PostWithoutFormTokenIsRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/accounts/logout/", strings.NewReader(url.Values{}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "The form has expired. Reload the page and try again.")
}

func TestRouter_LoginPage(t *testing.T) {
	rec := get(t, newRouter(t), "/accounts/login/?next=/catalog/mybooks/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="/catalog/mybooks/"`)
}

func TestRouter_StaticHealthAndNotFound(t *testing.T) {
	h := newRouter(t)

	rec := get(t, h, "/static/css/styles.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))

	rec = get(t, h, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, h, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The requested page does not exist.")
}

func TestOrigins(t *testing.T) {
	got := Origins("https://acct.r2.example/bucket", "", "not a url", "https://cdn.example/lib/")
	assert.Equal(t, []string{"https://acct.r2.example", "https://cdn.example"}, got)
}
