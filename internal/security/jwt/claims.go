package jwtutil

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are carried by the session cookie. Subject is the user id and
// ID (jti) names the server-side session record.
type SessionClaims struct {
	TokenVersion int `json:"tv"`
	jwt.RegisteredClaims
}

func NewSessionClaims(userID int64, sid string, tokenVersion int, now time.Time, ttl time.Duration) SessionClaims {
	return SessionClaims{
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// UserID parses the subject back into a user id.
func (c SessionClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
