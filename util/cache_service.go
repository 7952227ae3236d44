// api/util/cache_service.go

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dev-mohitbeniwal/teamaccess/api/db"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

// CacheService holds role and user snapshots for the access-check path. Writers call
// Set/Delete while still holding the entity lock; readers fill misses without
// overwriting anything a writer has stored in the meantime.
type CacheService interface {
	LoadRole(ctx context.Context, roleID string, loader func(context.Context) (*model.Role, error)) (*model.Role, error)
	SetRole(ctx context.Context, role model.Role) error
	DeleteRole(ctx context.Context, roleID string) error

	LoadUser(ctx context.Context, userID string, loader func(context.Context) (*model.User, error)) (*model.User, error)
	SetUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, userID string) error
}

// tombstone marks a deleted entity so a reader that loaded it before the delete cannot
// put it back.
var tombstone = []byte("\x00deleted")

func roleCacheKey(roleID string) string { return "cache:role:" + roleID }
func userCacheKey(userID string) string { return "cache:user:" + userID }

type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	group  singleflight.Group
}

var _ CacheService = (*RedisCache)(nil)

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) LoadRole(ctx context.Context, roleID string, loader func(context.Context) (*model.Role, error)) (*model.Role, error) {
	return load(ctx, c, roleCacheKey(roleID), loader)
}

func (c *RedisCache) SetRole(ctx context.Context, role model.Role) error {
	return db.SetJSON(ctx, c.client, roleCacheKey(role.ID), role, c.ttl)
}

func (c *RedisCache) DeleteRole(ctx context.Context, roleID string) error {
	return c.bury(ctx, roleCacheKey(roleID))
}

func (c *RedisCache) LoadUser(ctx context.Context, userID string, loader func(context.Context) (*model.User, error)) (*model.User, error) {
	return load(ctx, c, userCacheKey(userID), loader)
}

func (c *RedisCache) SetUser(ctx context.Context, user model.User) error {
	return db.SetJSON(ctx, c.client, userCacheKey(user.ID), user, c.ttl)
}

func (c *RedisCache) DeleteUser(ctx context.Context, userID string) error {
	return c.bury(ctx, userCacheKey(userID))
}

func (c *RedisCache) bury(ctx context.Context, key string) error {
	if err := c.client.Set(ctx, key, tombstone, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	logger.Debug("Cache entry invalidated", zap.String("key", key))
	return nil
}

// load serves key from Redis, or runs loader once per key across concurrent callers and
// offers the result with SETNX. Every caller decodes its own copy. Redis failures fall
// back to the loader.
func load[T any](ctx context.Context, c *RedisCache, key string, loader func(context.Context) (*T, error)) (*T, error) {
	data, found, err := db.GetRaw(ctx, c.client, key)
	switch {
	case err != nil:
		logger.Warn("Cache read failed, loading from store", zap.Error(err), zap.String("key", key))
	case found && !bytes.Equal(data, tombstone):
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return &v, nil
		}
		logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	ch := c.group.DoChan(key, func() (any, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if _, err := c.client.SetNX(ctx, key, encoded, c.ttl).Result(); err != nil {
			logger.Warn("Cache fill failed", zap.Error(err), zap.String("key", key))
		}
		return encoded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		var v T
		if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		return &v, nil
	}
}

// NoopCache always goes to the loader.
type NoopCache struct{}

var _ CacheService = NoopCache{}

func (NoopCache) LoadRole(ctx context.Context, _ string, loader func(context.Context) (*model.Role, error)) (*model.Role, error) {
	return loader(ctx)
}

func (NoopCache) SetRole(context.Context, model.Role) error { return nil }
func (NoopCache) DeleteRole(context.Context, string) error  { return nil }

func (NoopCache) LoadUser(ctx context.Context, _ string, loader func(context.Context) (*model.User, error)) (*model.User, error) {
	return loader(ctx)
}

func (NoopCache) SetUser(context.Context, model.User) error { return nil }
func (NoopCache) DeleteUser(context.Context, string) error  { return nil }
