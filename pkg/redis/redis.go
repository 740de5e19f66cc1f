package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mivitrina/mivitrina-backend/config"
	"github.com/mivitrina/mivitrina-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrNotConnected is returned by cache writes when Init was never called or
// failed. Reads degrade to a miss instead.
var ErrNotConnected = errors.New("redis not connected")

// Init establishes the Redis connection.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection.
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken revokes a token until its natural expiry.
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return ErrNotConnected
	}
	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted reports whether a token was revoked.
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}
	return val == "revoked", nil
}

// CacheZonePrices stores a computed zone price sheet for a store so repeated
// storefront loads skip the per-product recompute. Best effort: callers fall
// back to computing on a miss or error.
func CacheZonePrices(ctx context.Context, storeSlug string, payload []byte, ttl time.Duration) error {
	if client == nil {
		return ErrNotConnected
	}
	key := fmt.Sprintf("zoneprices:%s", storeSlug)
	return client.Set(ctx, key, payload, ttl).Err()
}

// GetZonePrices returns a cached zone price sheet, or nil on miss.
func GetZonePrices(ctx context.Context, storeSlug string) ([]byte, error) {
	if client == nil {
		return nil, nil
	}
	key := fmt.Sprintf("zoneprices:%s", storeSlug)
	val, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// InvalidateZonePrices drops the cached sheet after a config save.
func InvalidateZonePrices(ctx context.Context, storeSlug string) error {
	if client == nil {
		return nil
	}
	key := fmt.Sprintf("zoneprices:%s", storeSlug)
	return client.Del(ctx, key).Err()
}
