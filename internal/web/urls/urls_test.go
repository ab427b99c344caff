package urls

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse(t *testing.T) {
	got, err := Reverse(AuthorDetail, 7)
	require.NoError(t, err)
	assert.Equal(t, "/catalog/authors/7/", got)

	id := uuid.MustParse("7b2b3c4d-1111-4222-8333-444455556666")
	got, err = Reverse(MarkReturned, id)
	require.NoError(t, err)
	assert.Equal(t, "/catalog/books/7b2b3c4d-1111-4222-8333-444455556666/return/", got)

	got, err = Reverse(Index)
	require.NoError(t, err)
	assert.Equal(t, "/catalog/", got)
}

func TestReverse_Errors(t *testing.T) {
	_, err := Reverse("nope")
	assert.Error(t, err)

	_, err = Reverse(BookDetail)
	assert.Error(t, err)

	_, err = Reverse(Books, 1)
	assert.Error(t, err)

	assert.Panics(t, func() { MustReverse("nope") })
}

func TestLoginWithNext(t *testing.T) {
	assert.Equal(t, "/accounts/login/?next=%2Fcatalog%2Fbooks%2F", LoginWithNext("/catalog/books/"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/catalog/mybooks/", SafeNext("/catalog/mybooks/", "/x"))
	assert.Equal(t, "/x", SafeNext("", "/x"))
	assert.Equal(t, "/x", SafeNext("https://evil.example/", "/x"))
	assert.Equal(t, "/x", SafeNext("//evil.example/", "/x"))
	assert.Equal(t, "/x", SafeNext("/\\evil.example", "/x"))
}

func TestMuxPattern(t *testing.T) {
	assert.Equal(t, "/catalog/books/{id}/{$}", MuxPattern(BookDetail))
	assert.Equal(t, "/catalog/books/{id}/cover", MuxPattern(BookCover))
	assert.Panics(t, func() { MuxPattern("nope") })
}
