package session

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:"

func key(id string) string { return keyPrefix + id }

// RedisStore keeps each session in a hash with a TTL.
type RedisStore struct {
	RDB *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{RDB: rdb} }

func (s *RedisStore) Create(ctx context.Context, d Data, ttl time.Duration) error {
	k := key(d.ID)
	_, err := s.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k,
			"uid", d.UserID,
			"tv", d.TokenVersion,
			"visits", d.Visits,
			"created", d.CreatedAt.Unix(),
		)
		p.Expire(ctx, k, ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Get(ctx context.Context, id string) (Data, error) {
	m, err := s.RDB.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return Data{}, err
	}
	if len(m) == 0 {
		return Data{}, ErrNotFound
	}
	return decode(id, m), nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.RDB.Del(ctx, key(id)).Err()
}

// incrIfExists keeps HINCRBY from resurrecting an expired session without a TTL.
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
return redis.call("HINCRBY", KEYS[1], "visits", 1)
`)

func (s *RedisStore) IncrVisits(ctx context.Context, id string) (int64, error) {
	n, err := incrIfExists.Run(ctx, s.RDB, []string{key(id)}).Int64()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

func decode(id string, m map[string]string) Data {
	d := Data{ID: id}
	d.UserID, _ = strconv.ParseInt(m["uid"], 10, 64)
	d.TokenVersion, _ = strconv.Atoi(m["tv"])
	d.Visits, _ = strconv.ParseInt(m["visits"], 10, 64)
	if sec, err := strconv.ParseInt(m["created"], 10, 64); err == nil {
		d.CreatedAt = time.Unix(sec, 0).UTC()
	}
	return d
}
