package util

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenDenylists(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	lists := map[string]TokenDenylist{
		"redis":  NewRedisTokenDenylist(client),
		"memory": NewMemoryTokenDenylist(),
	}
	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
			require.NoError(t, list.Revoke(ctx, "jti-2", time.Now().Add(-time.Minute)))

			revoked, err := list.IsRevoked(ctx, "jti-1")
			require.NoError(t, err)
			assert.True(t, revoked)

			revoked, err = list.IsRevoked(ctx, "jti-2")
			require.NoError(t, err)
			assert.False(t, revoked)
		})
	}
}

func TestMemoryTokenDenylistExpires(t *testing.T) {
	list := NewMemoryTokenDenylist()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	list.now = func() time.Time { return now }

	require.NoError(t, list.Revoke(context.Background(), "jti", now.Add(time.Minute)))
	now = now.Add(2 * time.Minute)

	revoked, err := list.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
