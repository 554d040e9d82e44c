package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache does not own client; Close leaves it open for the other Redis users.
func NewRedisCache(client *redis.Client, cfg *config.CacheConfig) Cache {
	return &redisCache{client: client, defaultTTL: cfg.DefaultTTL}
}

func (r *redisCache) Get(ctx context.Context, key string, value any) (bool, error) {
	return r.decode(ctx, key, r.client.Get(ctx, key), value)
}

func (r *redisCache) GetAndTouch(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	return r.decode(ctx, key, r.client.GetEx(ctx, key, r.ttlOrDefault(ttl)), value)
}

// decode treats an undecodable entry as a miss and evicts it so the
// caller can rebuild it from the source of truth.
func (r *redisCache) decode(ctx context.Context, key string, cmd *redis.StringCmd, value any) (bool, error) {
	data, err := cmd.Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("cache read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		slog.Warn("Evicting undecodable cache entry", slog.String("key", key), slog.String("error", err.Error()))
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			return false, fmt.Errorf("cache evict %s: %w", key, delErr)
		}

		return false, nil
	}

	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttlOrDefault(ttl)).Err(); err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}

	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete %v: %w", keys, err)
	}

	return nil
}

func (r *redisCache) Close() error {
	return nil
}

func (r *redisCache) ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}

	return r.defaultTTL
}
