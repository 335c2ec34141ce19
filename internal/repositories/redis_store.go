package repositories

import (
	"context"
	"errors"
	"time"

	"golang-food-storefront/pkg/cache"
)

type redisCartStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisCartStore persists carts in Redis. A zero ttl keeps them forever.
func NewRedisCartStore(c *cache.RedisCache, ttl time.Duration) CartStore {
	return &redisCartStore{cache: c, ttl: ttl}
}

func (s *redisCartStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.cache.GetBytes(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	return value, err
}

func (s *redisCartStore) Set(ctx context.Context, key string, value []byte) error {
	return s.cache.SetBytes(ctx, key, value, s.ttl)
}

func (s *redisCartStore) Delete(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, key)
}
