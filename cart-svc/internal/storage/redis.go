package storage

import (
	"context"
	"errors"
	"time"

	"delivery-platform/cart-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps each cart blob under its own key. Every save refreshes the TTL.
type RedisStateStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{Client: client, TTL: ttl}
}

func (s *RedisStateStore) Load(ctx context.Context, key string) ([]byte, error) {
	blob, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *RedisStateStore) Save(ctx context.Context, key string, blob []byte) error {
	return s.Client.Set(ctx, key, blob, s.TTL).Err()
}

func (s *RedisStateStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}

var _ service.StateStore = (*RedisStateStore)(nil)
