package nonce

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "medgate/pkg/domain-errors"
)

const nonceKeyPrefix = "approval_nonce:"

// RedisStore records consumed nonces in Redis. SETNX gives first-use
// semantics atomically across nodes; expiry is native TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	first, err := s.client.SetNX(ctx, nonceKeyPrefix+jti, 1, ttl).Result()
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume approval nonce")
	}
	return first, nil
}

func (s *RedisStore) Release(ctx context.Context, jti string) error {
	if err := s.client.Del(ctx, nonceKeyPrefix+jti).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release approval nonce")
	}
	return nil
}

func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
