package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Window(t *testing.T) {
	p, err := New(13, 5, "2")
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumPages)
	assert.Equal(t, 2, p.Number)
	assert.True(t, p.HasPrevious())
	assert.True(t, p.HasNext())
	assert.Equal(t, 1, p.PreviousPageNumber())
	assert.Equal(t, 3, p.NextPageNumber())
	assert.Equal(t, 5, p.Offset())
	assert.Equal(t, 5, p.Limit())
	assert.True(t, p.IsPaginated())
}

func TestNew_SinglePageIsNotPaginated(t *testing.T) {
	for _, total := range []int{0, 1, 5} {
		p, err := New(total, 5, "")
		require.NoError(t, err)
		assert.Equal(t, 1, p.NumPages)
		assert.False(t, p.IsPaginated())
		assert.False(t, p.HasPrevious())
		assert.False(t, p.HasNext())
	}
}

func TestNew_Last(t *testing.T) {
	p, err := New(8, 5, "last")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Number)
	assert.False(t, p.HasNext())
}

func TestNew_Invalid(t *testing.T) {
	for _, raw := range []string{"0", "-1", "4", "abc", "1.5"} {
		_, err := New(13, 5, raw)
		assert.ErrorIs(t, err, ErrInvalidPage, "raw=%q", raw)
	}
}
