// api/db/redis.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/config"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = NewRedisClient(
		config.GetString("redis.addr"),
		config.GetString("redis.password"),
		config.GetInt("redis.db"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func NewRedisClient(addr, password string, database int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           database,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

// SetJSON stores v under key, replacing whatever is there.
func SetJSON(ctx context.Context, client redis.Cmdable, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	logger.Debug("Cached value", zap.String("key", key))
	return nil
}

// SetJSONNX stores v under key only if the key is absent. It reports whether the value
// was written.
func SetJSONNX(ctx context.Context, client redis.Cmdable, key string, v any, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	ok, err := client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return ok, nil
}

// GetRaw returns the bytes under key. A missing key yields found=false and no error.
func GetRaw(ctx context.Context, client redis.Cmdable, key string) ([]byte, bool, error) {
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Debug("Key not found in cache", zap.String("key", key))
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return data, true, nil
}

// RateLimit records a hit for key and reports whether the hits inside the sliding window
// stay within limit.
func RateLimit(ctx context.Context, client redis.Cmdable, key string, limit int, per time.Duration) (bool, error) {
	pipe := client.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: fmt.Sprintf("%d-%s", now, uuid.NewString())})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := card.Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}
