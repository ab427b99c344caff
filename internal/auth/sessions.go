package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	jwtutil "github.com/5w1tchy/locallibrary/internal/security/jwt"
	"github.com/5w1tchy/locallibrary/internal/session"
)

const CookieName = "sessionid"

// Sessions ties the session cookie to the server-side store. The cookie is a
// signed token; its jti names the session record and its subject the user.
type Sessions struct {
	Store  session.Store
	Users  UserStore
	Signer *jwtutil.Signer
	TTL    time.Duration
	Secure bool

	now func() time.Time
}

func NewSessions(store session.Store, users UserStore, signer *jwtutil.Signer, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{Store: store, Users: users, Signer: signer, TTL: ttl, Secure: secure, now: time.Now}
}

// Viewer implements middlewares.ViewerLoader. Bad, expired or revoked
// sessions clear the cookie and yield an anonymous viewer.
func (s *Sessions) Viewer(w http.ResponseWriter, r *http.Request) (models.Viewer, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return models.Viewer{}, nil
	}
	ctx := r.Context()

	claims, err := s.Signer.ParseSession(c.Value)
	if err != nil {
		s.clearCookie(w)
		return models.Viewer{}, nil
	}
	d, err := s.Store.Get(ctx, claims.ID)
	if errors.Is(err, session.ErrNotFound) {
		s.clearCookie(w)
		return models.Viewer{}, nil
	}
	if err != nil {
		return models.Viewer{}, err
	}

	v := models.Viewer{SessionID: d.ID}
	if !d.Authenticated() {
		return v, nil
	}
	if uid, err := claims.UserID(); err != nil || uid != d.UserID || claims.TokenVersion != d.TokenVersion {
		s.drop(ctx, w, d.ID)
		return models.Viewer{}, nil
	}

	u, err := s.Users.FindByID(ctx, d.UserID)
	if errors.Is(err, ErrUserNotFound) {
		s.drop(ctx, w, d.ID)
		return models.Viewer{}, nil
	}
	if err != nil {
		return models.Viewer{}, err
	}
	if u.TokenVersion != d.TokenVersion {
		// revoked
		s.drop(ctx, w, d.ID)
		return models.Viewer{}, nil
	}

	perms, err := s.Users.Permissions(ctx, u.ID)
	if err != nil {
		return models.Viewer{}, err
	}
	v.UserID = u.ID
	v.Username = u.Username
	v.Superuser = u.IsSuperuser
	v.Permissions = lo.SliceToMap(perms, func(p string) (string, struct{}) { return p, struct{}{} })
	return v, nil
}

// Start logs u in on a fresh session. The visit count of the previous
// (anonymous) session carries over and that session is removed.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request, u models.User) error {
	ctx := r.Context()
	var visits int64
	if old := middlewares.ViewerFrom(ctx).SessionID; old != "" {
		if d, err := s.Store.Get(ctx, old); err == nil {
			visits = d.Visits
		}
		if err := s.Store.Delete(ctx, old); err != nil {
			logger.FromContext(ctx).Warn("drop previous session", logger.Fields{"error": err.Error()})
		}
	}
	return s.create(ctx, w, session.Data{UserID: u.ID, TokenVersion: u.TokenVersion, Visits: visits})
}

// End deletes the current session and clears the cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) error {
	s.clearCookie(w)
	sid := middlewares.ViewerFrom(r.Context()).SessionID
	if sid == "" {
		return nil
	}
	return s.Store.Delete(r.Context(), sid)
}

// CountVisit bumps the visit counter of the current session and returns the
// new value. Visitors without a session get an anonymous one starting at 1.
func (s *Sessions) CountVisit(w http.ResponseWriter, r *http.Request) (int64, error) {
	ctx := r.Context()
	if sid := middlewares.ViewerFrom(ctx).SessionID; sid != "" {
		n, err := s.Store.IncrVisits(ctx, sid)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return 0, err
		}
	}
	if err := s.create(ctx, w, session.Data{Visits: 1}); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *Sessions) create(ctx context.Context, w http.ResponseWriter, d session.Data) error {
	tok, sid, err := s.Signer.SignSession(d.UserID, d.TokenVersion, s.TTL)
	if err != nil {
		return err
	}
	d.ID = sid
	d.CreatedAt = s.now().UTC()
	if err := s.Store.Create(ctx, d, s.TTL); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.TTL.Seconds()),
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Sessions) drop(ctx context.Context, w http.ResponseWriter, sid string) {
	if err := s.Store.Delete(ctx, sid); err != nil {
		logger.FromContext(ctx).Warn("drop stale session", logger.Fields{"error": err.Error()})
	}
	s.clearCookie(w)
}

func (s *Sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
