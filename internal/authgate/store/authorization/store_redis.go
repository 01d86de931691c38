package authorization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"medgate/internal/authgate/models"
	dErrors "medgate/pkg/domain-errors"
)

const recordKeyPrefix = "authz:"

// RedisStore persists authorization records in Redis for multi-node
// deployments. TTL eviction is handled natively by Redis, so DeleteExpired
// has nothing to sweep.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, record *models.AuthorizationRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode authorization record")
	}
	if err := s.client.Set(ctx, recordKey(record.Email), payload, ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store authorization record")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (*models.AuthorizationRecord, error) {
	payload, err := s.client.Get(ctx, recordKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read authorization record")
	}

	var record models.AuthorizationRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		// A value we cannot decode must surface as a server error, never as
		// an authorized identity.
		return nil, dErrors.Wrap(err, dErrors.CodeRecordCorrupted, "stored authorization record failed to decode")
	}
	return &record, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, recordKey(email)).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete authorization record")
	}
	return nil
}

func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func recordKey(email string) string {
	return fmt.Sprintf("%s%s", recordKeyPrefix, key(email))
}
