package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON-encoded values under string keys. Get reports a miss
// as (false, nil); errors mean the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	// GetAndTouch reads like Get and resets the key's expiry to ttl on a hit.
	GetAndTouch(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

const (
	CartKeyPrefix      = "cart"
	ProductKeyPrefix   = "product"
	RateLimitKeyPrefix = "ratelimit"
)

// Key joins prefix and parts with ':', e.g. Key(CartKeyPrefix, sessionID).
func Key(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}
