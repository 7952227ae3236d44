// api/util/token_denylist.go

package util

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist remembers logged-out token ids until the tokens would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisTokenDenylist struct {
	client redis.Cmdable
}

func NewRedisTokenDenylist(client redis.Cmdable) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, "revoked:"+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, "revoked:"+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return n > 0, nil
}

// MemoryTokenDenylist serves single-instance deployments and tests.
type MemoryTokenDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenDenylist() *MemoryTokenDenylist {
	return &MemoryTokenDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryTokenDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for id, exp := range d.entries {
		if !exp.After(now) {
			delete(d.entries, id)
		}
	}
	if expiresAt.After(now) {
		d.entries[tokenID] = expiresAt
	}
	return nil
}

func (d *MemoryTokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.entries[tokenID]
	return ok && exp.After(d.now()), nil
}
