package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

// StateStore keeps OAuth state nonces until the callback consumes them
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	// Consume deletes state and reports whether it was present
	Consume(ctx context.Context, state string) (bool, error)
}

const oauthStatePrefix = "oauth_state:"

type RedisStateStore struct {
	Redis *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{Redis: client}
}

func (s *RedisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	ok, err := s.Redis.SetNX(ctx, oauthStatePrefix+state, 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: oauth state collision", ErrAlreadyExists)
	}
	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.Redis.Del(ctx, oauthStatePrefix+state).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return n == 1, nil
}

// MemoryStateStore is the single-process fallback used when no Redis is configured
type MemoryStateStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{cache: cache.New(10*time.Minute, time.Minute)}
}

func (s *MemoryStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	if err := s.cache.Add(state, struct{}{}, ttl); err != nil {
		return fmt.Errorf("%w: oauth state collision", ErrAlreadyExists)
	}
	return nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.cache.Get(state); !found {
		return false, nil
	}
	s.cache.Delete(state)
	return true, nil
}
