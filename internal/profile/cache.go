package profile

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"venuehub/internal/messaging"
)

const (
	keyPrefix = "profile:name:"
	// stored for users the directory does not know, so misses are cached too
	missingMarker = "\x00"
)

// Cache is the subset of *redis.Client the cached directory uses.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedDirectory keeps display-name lookups in Redis for ttl. Redis
// failures are logged and the lookup goes to the wrapped directory.
type CachedDirectory struct {
	next  messaging.ProfileDirectory
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedDirectory(next messaging.ProfileDirectory, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDirectory{next: next, cache: cache, ttl: ttl, log: logger}
}

func (c *CachedDirectory) LookupDisplayName(ctx context.Context, userID string) (string, bool, error) {
	key := keyPrefix + userID

	cached, err := c.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == missingMarker {
			return "", false, nil
		}
		return cached, true, nil
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("profile cache read failed", zap.String("user_id", userID), zap.Error(err))
	}

	name, ok, err := c.next.LookupDisplayName(ctx, userID)
	if err != nil {
		return "", false, err
	}

	value := name
	if !ok {
		value = missingMarker
	}
	if err := c.cache.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn("profile cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return name, ok, nil
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
