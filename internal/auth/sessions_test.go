package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/models"
	jwtutil "github.com/5w1tchy/locallibrary/internal/security/jwt"
	"github.com/5w1tchy/locallibrary/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSessions(users UserStore) (*Sessions, *session.MemoryStore) {
	store := session.NewMemoryStore()
	return NewSessions(store, users, jwtutil.NewSigner(testSecret, time.Minute), time.Hour, false), store
}

// serve runs h behind LoadViewer, replaying cookie when non-nil.
func serve(s *Sessions, h http.HandlerFunc, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	middlewares.LoadViewer(s)(h).ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func viewerOf(t *testing.T, s *Sessions, cookie *http.Cookie) (models.Viewer, *httptest.ResponseRecorder) {
	t.Helper()
	var v models.Viewer
	rec := serve(s, func(w http.ResponseWriter, r *http.Request) {
		v = middlewares.ViewerFrom(r.Context())
	}, httptest.NewRequest(http.MethodGet, "/catalog/", nil), cookie)
	return v, rec
}

func countVisit(t *testing.T, s *Sessions, cookie *http.Cookie) (int64, *http.Cookie) {
	t.Helper()
	var n int64
	rec := serve(s, func(w http.ResponseWriter, r *http.Request) {
		var err error
		n, err = s.CountVisit(w, r)
		require.NoError(t, err)
	}, httptest.NewRequest(http.MethodGet, "/catalog/", nil), cookie)
	if c := sessionCookie(rec); c != nil {
		cookie = c
	}
	return n, cookie
}

func TestSessions_NoCookieIsAnonymous(t *testing.T) {
	s, _ := newTestSessions(newMemUsers())
	v, rec := viewerOf(t, s, nil)

	assert.False(t, v.IsAuthenticated())
	assert.Empty(t, v.SessionID)
	assert.Nil(t, sessionCookie(rec))
}

func TestSessions_GarbageCookieIsCleared(t *testing.T) {
	s, _ := newTestSessions(newMemUsers())
	v, rec := viewerOf(t, s, &http.Cookie{Name: CookieName, Value: "not-a-token"})

	assert.False(t, v.IsAuthenticated())
	c := sessionCookie(rec)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
}

func TestSessions_CountVisit(t *testing.T) {
	s, _ := newTestSessions(newMemUsers())

	n, cookie := countVisit(t, s, nil)
	assert.EqualValues(t, 1, n)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	n, cookie = countVisit(t, s, cookie)
	assert.EqualValues(t, 2, n)
	n, _ = countVisit(t, s, cookie)
	assert.EqualValues(t, 3, n)

	v, _ := viewerOf(t, s, cookie)
	assert.NotEmpty(t, v.SessionID)
	assert.False(t, v.IsAuthenticated())
}

func TestSessions_StartCarriesVisitsAndLoadsViewer(t *testing.T) {
	users := newMemUsers(models.User{ID: 4, Username: "lib", TokenVersion: 1})
	require.NoError(t, users.GrantPermission(t.Context(), 4, models.PermMarkReturned))
	s, store := newTestSessions(users)

	_, anon := countVisit(t, s, nil)
	_, anon = countVisit(t, s, anon)
	anonViewer, _ := viewerOf(t, s, anon)

	rec := serve(s, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, s.Start(w, r, models.User{ID: 4, Username: "lib", TokenVersion: 1}))
	}, httptest.NewRequest(http.MethodPost, "/accounts/login/", nil), anon)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	// old anonymous session is gone
	_, err := store.Get(t.Context(), anonViewer.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	v, _ := viewerOf(t, s, cookie)
	assert.True(t, v.IsAuthenticated())
	assert.Equal(t, "lib", v.Username)
	assert.True(t, v.HasPerm(models.PermMarkReturned))
	assert.False(t, v.HasPerm(models.PermRenew))

	n, _ := countVisit(t, s, cookie)
	assert.EqualValues(t, 3, n)
}

func TestSessions_RevokedTokenVersionLogsOut(t *testing.T) {
	users := newMemUsers(models.User{ID: 4, Username: "lib", TokenVersion: 1})
	s, store := newTestSessions(users)

	rec := serve(s, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, s.Start(w, r, models.User{ID: 4, Username: "lib", TokenVersion: 1}))
	}, httptest.NewRequest(http.MethodPost, "/accounts/login/", nil), nil)
	cookie := sessionCookie(rec)
	before, _ := viewerOf(t, s, cookie)
	require.True(t, before.IsAuthenticated())

	require.NoError(t, users.RevokeSessions(t.Context(), 4))

	after, rec := viewerOf(t, s, cookie)
	assert.False(t, after.IsAuthenticated())
	assert.Equal(t, -1, sessionCookie(rec).MaxAge)
	_, err := store.Get(t.Context(), before.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessions_TokenFromOtherSecretIsRejected(t *testing.T) {
	s, _ := newTestSessions(newMemUsers())
	other := jwtutil.NewSigner(strings.Repeat("x", 32), time.Minute)
	tok, _, err := other.SignSession(4, 1, time.Hour)
	require.NoError(t, err)

	v, _ := viewerOf(t, s, &http.Cookie{Name: CookieName, Value: tok})
	assert.False(t, v.IsAuthenticated())
}

func TestSessions_End(t *testing.T) {
	s, store := newTestSessions(newMemUsers())
	_, cookie := countVisit(t, s, nil)
	v, _ := viewerOf(t, s, cookie)

	rec := serve(s, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, s.End(w, r))
	}, httptest.NewRequest(http.MethodPost, "/accounts/logout/", nil), cookie)

	assert.Equal(t, -1, sessionCookie(rec).MaxAge)
	_, err := store.Get(t.Context(), v.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
