// Package redisstore implements durable client storage on Redis, for
// clients that run on several hosts but must share one signed-in session.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// KeyPrefix namespaces every key this package writes.
const KeyPrefix = "bazaar"

var _ types.Storage = (*Store)(nil)

// Store implements types.Storage with one redis string per key.
type Store struct {
	mu      sync.RWMutex
	client  *redis.Client
	profile string
	closed  bool
}

// Open connects to the redis server named in config and verifies it answers
// a PING.
func Open(ctx context.Context, profile string, config types.StorageConfig) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{
		Addr: config.RedisAddr,
		DB:   config.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.RedisAddr, err)
	}
	return New(client, profile), nil
}

// New wraps an existing client.
func New(client *redis.Client, profile string) *Store {
	if profile == "" {
		profile = types.DefaultProfile
	}
	return &Store{client: client, profile: profile}
}

func (s *Store) key(k string) string {
	return KeyPrefix + ":" + s.profile + ":" + k
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, types.ErrInvalidKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, types.ErrStorageDetached
	}

	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiry; the server decides when a
// token stops being valid.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.ErrStorageDetached
	}

	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.ErrStorageDetached
	}

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.client.Close()
}
