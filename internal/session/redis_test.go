package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, NewRedisStore(rdb)
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mr, s := newRedisStore(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Create(ctx, Data{ID: "abc", UserID: 7, TokenVersion: 2, Visits: 1, CreatedAt: created}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("sess:abc"))
	assert.Equal(t, "7", mr.HGet("sess:abc", "uid"))

	d, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, Data{ID: "abc", UserID: 7, TokenVersion: 2, Visits: 1, CreatedAt: created}, d)

	n, err := s.IncrVisits(ctx, "abc")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, time.Hour, mr.TTL("sess:abc"))

	require.NoError(t, s.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("sess:abc"))
	_, err = s.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_IncrVisitsDoesNotRecreate(t *testing.T) {
	ctx := context.Background()
	mr, s := newRedisStore(t)

	_, err := s.IncrVisits(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("sess:gone"))
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, s := newRedisStore(t)

	require.NoError(t, s.Create(ctx, Data{ID: "x"}, time.Minute))
	mr.FastForward(time.Minute)

	_, err := s.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.IncrVisits(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("sess:x"))
}
