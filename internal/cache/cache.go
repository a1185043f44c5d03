// Package cache wraps Redis with the remember/put semantics used by the
// github proxy: a populated entry is authoritative until its TTL expires or
// someone force-refreshes it.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

var ctx = context.Background()

// Store is the key/value contract services depend on. Tests swap in an
// in-memory implementation.
type Store interface {
	// Remember returns the cached value for key if present; otherwise it runs
	// produce, stores the result with the given TTL and returns it.
	Remember(key string, ttl time.Duration, produce func() ([]byte, error)) ([]byte, error)
	// Put unconditionally overwrites the entry.
	Put(key string, value []byte, ttl time.Duration) error
}

// RedisStore implements Store on go-redis.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Remember(key string, ttl time.Duration, produce func() ([]byte, error)) ([]byte, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return val, nil
	}
	if err != redis.Nil {
		return nil, err
	}
	fresh, err := produce()
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, key, fresh, ttl).Err(); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *RedisStore) Put(key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}
