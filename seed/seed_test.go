package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	"github.com/dev-mohitbeniwal/teamaccess/api/dao"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/seed"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

const document = `
teams:
  - name: Platform
    description: platform team
roles:
  - name: superadmin
    allPermissions: true
  - name: EDITOR
    permissions:
      - key: user.update
        scope: team
users:
  - name: Root
    email: root@example.com
    password: change-me
    team: platform
    roles: [SUPERADMIN, editor]
`

func newServices() *service.Services {
	deps := service.Dependencies{
		Store:  dao.NewMemoryStore(),
		Locker: util.NewLocalLocker(time.Second),
	}
	auditService := audit.NewService(audit.NewMemoryRepository())
	return service.InitializeServices(deps, auditService, service.AuthConfig{Secret: []byte("s")}, nil)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	services := newServices()
	f, err := seed.Parse([]byte(document))
	require.NoError(t, err)

	res, err := seed.NewSeeder(services).Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Created: 4}, res)

	roles, err := services.Role.ListRoles(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	for _, r := range roles {
		if r.Name == "SUPERADMIN" {
			assert.Len(t, r.Permissions, len(catalog.Keys()))
		}
	}

	users, err := services.User.ListUsers(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Len(t, users[0].Assignments, 2)
	require.NotNil(t, users[0].Team)
	assert.Equal(t, "Platform", users[0].Team.Name)

	logs, err := services.Audit.QueryLogs(ctx, audit.Filter{})
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, model.SystemActor.Email, logs[0].User.Email)

	res, err = seed.NewSeeder(services).Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Skipped: 4}, res)
}

func TestApplyUnknownRole(t *testing.T) {
	f, err := seed.Parse([]byte(`
users:
  - name: Bob
    email: bob@example.com
    password: change-me
    roles: [GHOST]
`))
	require.NoError(t, err)

	_, err = seed.NewSeeder(newServices()).Apply(context.Background(), f)
	assert.ErrorIs(t, err, ta_errors.ErrRoleNotFound)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := seed.Parse([]byte("teams: [oops"))
	assert.Error(t, err)
}
