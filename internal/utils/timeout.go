package utils

import (
	"context"
	"sync/atomic"
	"time"
)

const fallbackDBTimeout = 5 * time.Second

var dbTimeout atomic.Int64

// SetDBTimeout changes the per-query deadline. Non-positive values restore the 5s fallback.
func SetDBTimeout(d time.Duration) {
	if d <= 0 {
		d = fallbackDBTimeout
	}

	dbTimeout.Store(int64(d))
}

func DBTimeout() time.Duration {
	if d := dbTimeout.Load(); d > 0 {
		return time.Duration(d)
	}

	return fallbackDBTimeout
}

// WithDBTimeout bounds a single repository call. A tighter deadline already on ctx wins.
func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DBTimeout())
}
