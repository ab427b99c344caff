package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap params keep the suite fast
var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashVerify(t *testing.T) {
	h := NewHasher(testParams)
	phc, err := h.Hash("correct horse")
	require.NoError(t, err)

	ok, rehash, err := h.Verify("correct horse", phc)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, rehash)

	ok, _, err = h.Verify("wrong horse", phc)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_StrongerPolicyWantsRehash(t *testing.T) {
	phc, err := NewHasher(testParams).Hash("correct horse")
	require.NoError(t, err)

	stronger := NewHasher(testParams.WithCost(2048, 2, 0))
	ok, rehash, err := stronger.Verify("correct horse", phc)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rehash)
}

func TestNeedsRehash_Garbage(t *testing.T) {
	assert.True(t, NewHasher(testParams).NeedsRehash("not-a-hash"))
}

func TestWithCost_IgnoresZero(t *testing.T) {
	p := DefaultParams().WithCost(0, 5, 0)
	assert.Equal(t, DefaultParams().Memory, p.Memory)
	assert.EqualValues(t, 5, p.Iterations)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		pwd, user string
		want      error
	}{
		{"short", "bob", ErrTooShort},
		{"  bobby-tables  ", "bobby", ErrTooSimilar},
		{"1234567890", "alice", ErrEntirelyNumber},
		{"librarian-2024", "alice", nil},
	}
	for _, tc := range cases {
		_, err := Validate(tc.pwd, tc.user)
		if tc.want == nil {
			assert.NoError(t, err, tc.pwd)
		} else {
			assert.ErrorIs(t, err, tc.want, tc.pwd)
		}
	}
}
