package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestSignParse_RoundTrip(t *testing.T) {
	s := NewSigner(secret, time.Minute)
	tok, sid, err := s.SignSession(42, 3, time.Hour)
	require.NoError(t, err)
	assert.Len(t, sid, 32)

	claims, err := s.ParseSession(tok)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, uid)
	assert.Equal(t, sid, claims.ID)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, _, err := NewSigner(secret, 0).SignSession(1, 0, time.Hour)
	require.NoError(t, err)

	_, err = NewSigner("another-secret-another-secret-xx", 0).ParseSession(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParse_Expired(t *testing.T) {
	s := NewSigner(secret, time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := s.SignSession(1, 0, time.Hour)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ParseSession(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_Garbage(t *testing.T) {
	_, err := NewSigner(secret, 0).ParseSession("not.a.token")
	assert.Error(t, err)
}
