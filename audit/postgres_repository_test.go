package audit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	repo := NewPostgresRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	entityID := uuid.New().String()
	log := AuditLog{
		ID:        uuid.New().String(),
		User:      RecordUser{ID: "u1", Name: "Ann", Email: "ann@example.com"},
		Action:    ActionUpdate,
		Entity:    EntityUser,
		EntityID:  entityID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, repo.Save(ctx, log))

	logs, err := repo.Query(ctx, Filter{Entity: EntityUser, Limit: 500})
	require.NoError(t, err)

	var found bool
	for _, l := range logs {
		if l.EntityID == entityID {
			found = true
			assert.Equal(t, log.User, l.User)
			assert.True(t, log.CreatedAt.Equal(l.CreatedAt))
		}
	}
	assert.True(t, found)
}
