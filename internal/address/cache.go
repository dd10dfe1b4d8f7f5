package address

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dpaula-bank/bank/internal/bank"
)

const cachePrefix = "address:v1:"

// Cached memoizes successful lookups in Redis. Cache failures are logged and
// the call falls through to the wrapped Lookup.
type Cached struct {
	next   Lookup
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with a Redis cache. A nil client returns next unchanged.
func NewCached(next Lookup, cache *redis.Client, ttl time.Duration, logger *slog.Logger) Lookup {
	if cache == nil {
		return next
	}
	return &Cached{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Lookup serves from Redis when possible.
func (c *Cached) Lookup(ctx context.Context, postalCode string) (bank.Address, error) {
	digits, err := Normalize(postalCode)
	if err != nil {
		return bank.Address{}, err
	}
	key := cachePrefix + digits

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var addr bank.Address
		if err := json.Unmarshal(raw, &addr); err == nil {
			return addr, nil
		}
		c.logger.Warn("discarding undecodable cached address", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("address cache read failed", slog.String("key", key), slog.Any("error", err))
	}

	addr, err := c.next.Lookup(ctx, digits)
	if err != nil {
		return bank.Address{}, err
	}

	payload, err := json.Marshal(addr)
	if err == nil {
		err = c.cache.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("address cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return addr, nil
}
