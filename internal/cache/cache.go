// Package cache provides the time-based revalidation store used by the
// service layer. Values are JSON-encoded so memory and redis behave alike.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"goldrates/internal/metrics"
)

// Cache stores encoded values with a time-to-live.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Revalidate returns the cached value for key when fresh, otherwise calls
// load and caches a present result for ttl. load reports ok=false for an
// absent value, which is passed through but never cached. Cache failures
// degrade to calling load directly.
func Revalidate[T any](ctx context.Context, c Cache, logger zerolog.Logger, family, key string, ttl time.Duration, load func(ctx context.Context) (T, bool)) (T, bool) {
	if c == nil || ttl <= 0 {
		return load(ctx)
	}

	if raw, hit, err := c.Get(ctx, key); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if hit {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			metrics.ObserveCache(family, true)
			return v, true
		}
		logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}
	metrics.ObserveCache(family, false)

	v, ok := load(ctx)
	if !ok {
		return v, false
	}

	raw, err := json.Marshal(v)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return v, true
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return v, true
}
