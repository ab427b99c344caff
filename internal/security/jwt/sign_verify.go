package jwtutil

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	secret    []byte
	clockSkew time.Duration
	now       func() time.Time
}

func NewSigner(secret string, clockSkew time.Duration) *Signer {
	return &Signer{secret: []byte(secret), clockSkew: clockSkew, now: time.Now}
}

// SignSession returns (tokenString, sid). A fresh random sid is minted per call.
func (s *Signer) SignSession(userID int64, tokenVersion int, ttl time.Duration) (string, string, error) {
	sid, err := NewID()
	if err != nil {
		return "", "", err
	}
	claims := NewSessionClaims(userID, sid, tokenVersion, s.now(), ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok, err := t.SignedString(s.secret)
	return tok, sid, err
}

// ParseSession verifies the HS256 signature and expiry (with leeway).
func (s *Signer) ParseSession(tokenStr string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithLeeway(s.clockSkew),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewID returns 128 random bits, hex encoded.
func NewID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
