package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "casebook/internal/jurisdiction/models"
	"casebook/pkg/platform/sentinel"
)

const redisKeyPrefix = "casebook:action:"

// RedisStore shares resolved actions between processes.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, action domain.Action) error {
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+action.GUID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save action cache: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, guid string) (domain.Action, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+guid).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Action{}, sentinel.ErrNotFound
		}
		return domain.Action{}, fmt.Errorf("find action cache: %w", err)
	}
	var action domain.Action
	if err := json.Unmarshal(payload, &action); err != nil {
		return domain.Action{}, fmt.Errorf("decode action cache: %w", err)
	}
	return action, nil
}
