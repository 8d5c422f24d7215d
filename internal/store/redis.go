package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amishk599/crewboard/internal/model"
)

const logoKeyPrefix = "crewboard:logo:"

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RedisLogoCache is a read-through cache of client logo URLs in front of a
// LogoFetcher. Empty logos are cached too, so clients without a logo are
// not looked up on every render. Cache errors degrade to a direct lookup.
type RedisLogoCache struct {
	inner  model.LogoFetcher
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisLogoCache wraps inner with a Redis cache whose entries live for ttl.
func NewRedisLogoCache(inner model.LogoFetcher, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLogoCache {
	return &RedisLogoCache{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func logoKey(clientID int) string {
	return logoKeyPrefix + strconv.Itoa(clientID)
}

// FetchLogo returns the cached logo for clientID, looking it up on a miss.
// Failed lookups are not cached.
func (c *RedisLogoCache) FetchLogo(ctx context.Context, clientID int) (string, error) {
	key := logoKey(clientID)

	logo, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return logo, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("logo cache read failed", "client_id", clientID, "error", err)
	}

	logo, err = c.inner.FetchLogo(ctx, clientID)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, logo, c.ttl).Err(); err != nil {
		c.logger.Warn("logo cache write failed", "client_id", clientID, "error", err)
	}
	return logo, nil
}

// Invalidate drops the cached logo of clientID.
func (c *RedisLogoCache) Invalidate(ctx context.Context, clientID int) error {
	if err := c.rdb.Del(ctx, logoKey(clientID)).Err(); err != nil {
		return fmt.Errorf("invalidating logo for client %d: %w", clientID, err)
	}
	return nil
}
