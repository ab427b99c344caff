package s3

import (
	"errors"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	_, err := New(t.Context(), Options{})
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestPresignGet(t *testing.T) {
	c, err := New(t.Context(), Options{
		Endpoint:        "https://acct.r2.example",
		Bucket:          "covers",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PathStyle:       true,
	})
	require.NoError(t, err)

	raw, err := c.PresignGet(t.Context(), "covers/1/abc.jpg")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "acct.r2.example", u.Host)
	assert.Equal(t, "/covers/covers/1/abc.jpg", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestCoverContentType(t *testing.T) {
	ct, ok := CoverContentType("Front.JPEG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	_, ok = CoverContentType("notes.txt")
	assert.False(t, ok)
}

func TestCoverKey(t *testing.T) {
	k := CoverKey(42, "front.jpeg")
	assert.Regexp(t, regexp.MustCompile(`^covers/42/[0-9a-f-]{36}\.jpg$`), k)
	assert.NotEqual(t, k, CoverKey(42, "front.jpeg"))
}

func TestPublicOrigin(t *testing.T) {
	assert.Empty(t, Options{}.PublicOrigin())
	assert.Equal(t, "https://acct.r2.example", Options{Bucket: "covers", Endpoint: "https://acct.r2.example", PathStyle: true}.PublicOrigin())
	assert.Equal(t, "https://covers.acct.r2.example", Options{Bucket: "covers", Endpoint: "https://acct.r2.example"}.PublicOrigin())
	assert.Equal(t, "https://covers.s3.eu-west-1.amazonaws.com", Options{Bucket: "covers", Region: "eu-west-1"}.PublicOrigin())
}
