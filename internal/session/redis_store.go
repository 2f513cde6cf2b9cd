package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	sessionPrefix = "candlebliss:session:"
	cachePrefix   = "candlebliss:cache:"
)

// RedisStore keeps sessions and cached API payloads in redis as JSON strings.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisStore(client *redis.Client, sessionTTL time.Duration, logger *logrus.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    sessionTTL,
		log:    logger,
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Errorf("SessionStore: Failed to load session: %v", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warnf("SessionStore: Dropping undecodable session: %v", err)
		_ = s.client.Del(ctx, sessionPrefix+id).Err()
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Save keeps the remaining TTL of an existing session and sets the full TTL on new ones.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	key := sessionPrefix + sess.ID
	ttl := s.ttl
	if remaining, err := s.client.TTL(ctx, key).Result(); err == nil && remaining > 0 {
		ttl = remaining
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.Errorf("SessionStore: Failed to save session: %v", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Cache returns the cache view of the same redis connection.
func (s *RedisStore) Cache() Cache {
	return &redisCache{client: s.client, log: s.log}
}

type redisCache struct {
	client *redis.Client
	log    *logrus.Logger
}

func (c *redisCache) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warnf("Cache: Dropping undecodable value for key %s: %v", key, err)
		_ = c.client.Del(ctx, cachePrefix+key).Err()
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, cachePrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, cachePrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}
