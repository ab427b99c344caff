package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	"github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/security/password"
	"github.com/5w1tchy/locallibrary/internal/web/urls"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

const (
	msgBadCredentials = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgThrottled      = "Too many login attempts. Try again later."
)

type Handler struct {
	Users    UserStore
	Hasher   *password.Hasher
	Sessions *Sessions
	Pages    *httpx.Pages
}

func New(users UserStore, hasher *password.Hasher, sessions *Sessions, pages *httpx.Pages) *Handler {
	return &Handler{Users: users, Hasher: hasher, Sessions: sessions, Pages: pages}
}

// LoginForm: GET /accounts/login/
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, view.LoginData{Next: r.URL.Query().Get("next")})
}

// Login: POST /accounts/login/. Failures re-render the form with one generic
// message so the response never reveals which field was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := strings.TrimSpace(r.PostFormValue("username"))
	pwd := r.PostFormValue("password")
	next := r.PostFormValue("next")
	form := view.LoginData{Username: username, Next: next}

	fail := func() {
		form.Error = msgBadCredentials
		h.renderLogin(w, r, http.StatusOK, form)
	}
	if username == "" || pwd == "" {
		fail()
		return
	}

	u, err := h.Users.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		fail()
		return
	}
	if err != nil {
		h.Pages.Error(w, r, err)
		return
	}

	ok, rehash, err := h.Hasher.Verify(pwd, u.PasswordHash)
	if err != nil {
		logger.FromContext(ctx).Warn("stored hash unreadable", logger.Fields{"user_id": u.ID, "error": err.Error()})
	}
	if !ok {
		fail()
		return
	}
	if rehash {
		h.upgradeHash(r, u, pwd)
	}

	if err := h.Sessions.Start(w, r, u); err != nil {
		h.Pages.Error(w, r, err)
		return
	}
	logger.FromContext(ctx).Info("user logged in", logger.Fields{"user_id": u.ID})
	httpx.Redirect(w, r, urls.SafeNext(next, urls.MustReverse(urls.Index)))
}

// Logout: POST /accounts/logout/
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(w, r); err != nil {
		logger.FromContext(r.Context()).Warn("delete session", logger.Fields{"error": err.Error()})
	}
	r = r.WithContext(middlewares.WithViewer(r.Context(), models.Viewer{}))
	h.Pages.Render(w, r, http.StatusOK, view.PageLoggedOut, nil, nil)
}

// Throttled is the failure page for the login rate limiter: the login form
// again, with the reason.
func (h *Handler) Throttled(w http.ResponseWriter, r *http.Request, status int) {
	h.renderLogin(w, r, status, view.LoginData{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Next:     r.PostFormValue("next"),
		Error:    msgThrottled,
	})
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data view.LoginData) {
	h.Pages.Render(w, r, status, view.PageLogin, nil, data)
}

// upgradeHash stores pwd under the current cost policy; errors are only logged.
func (h *Handler) upgradeHash(r *http.Request, u models.User, pwd string) {
	l := logger.FromContext(r.Context())
	phc, err := h.Hasher.Hash(pwd)
	if err != nil {
		l.Error("rehash password", err, logger.Fields{"user_id": u.ID})
		return
	}
	if err := h.Users.UpdatePasswordHash(r.Context(), u.ID, phc); err != nil {
		l.Error("store rehashed password", err, logger.Fields{"user_id": u.ID})
	}
}
