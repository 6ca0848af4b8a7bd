package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/leavehub/portal-gateway/pkg/redis"
)

const keyPrefix = "session:"

// RedisStore persists the session in Redis so it survives gateway
// restarts. The record TTL tracks the token's own expiry.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed store. The id scopes the key,
// one session per gateway instance.
func NewRedisStore(client *redis.Client, id string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    keyPrefix + id,
	}
}

// Get returns the current session, or ErrNoSession.
func (r *RedisStore) Get(ctx context.Context) (*Session, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

// Set replaces the stored session. The key expires when the token
// does, so an abandoned session ages out on its own.
func (r *RedisStore) Set(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = time.Until(s.ExpiresAt)
		if ttl <= 0 {
			ttl = time.Second
		}
	}

	if err := r.client.Set(ctx, r.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
