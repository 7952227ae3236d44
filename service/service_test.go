package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	"github.com/dev-mohitbeniwal/teamaccess/api/dao"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	testmock "github.com/dev-mohitbeniwal/teamaccess/api/test/mock"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

var (
	admin   = model.Actor{ID: "admin", Name: "Admin", Email: "admin@example.com"}
	fixedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	store *dao.MemoryStore
	facts *testmock.FactRecorder
	deps  Dependencies
	roles *RoleService
	users *UserService
	teams *TeamService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: dao.NewMemoryStore(),
		facts: &testmock.FactRecorder{},
	}
	f.deps = Dependencies{
		Store:  f.store,
		Locker: util.NewLocalLocker(2 * time.Second),
		Audit:  f.facts,
		Now:    func() time.Time { return fixedAt },
	}
	f.roles = NewRoleService(f.deps)
	f.users = NewUserService(f.deps)
	f.teams = NewTeamService(f.deps)
	return f
}

func (f *fixture) role(t *testing.T, name string, grants ...model.GrantInput) *model.Role {
	t.Helper()
	r, err := f.roles.CreateRole(context.Background(), admin, model.RoleInput{Name: name, Permissions: grants})
	require.NoError(t, err)
	return r
}

func (f *fixture) team(t *testing.T, name string) *model.Team {
	t.Helper()
	team, err := f.teams.CreateTeam(context.Background(), admin, model.TeamInput{Name: name})
	require.NoError(t, err)
	return team
}

func (f *fixture) user(t *testing.T, email string, teamID *string, roleIDs ...string) *model.User {
	t.Helper()
	input := model.UserInput{Name: "User " + email, Email: email, Password: "secret-pw", TeamID: teamID}
	for _, id := range roleIDs {
		input.Roles = append(input.Roles, model.AssignmentInput{RoleID: id})
	}
	u, err := f.users.CreateUser(context.Background(), admin, input)
	require.NoError(t, err)
	return u
}

// factsSince returns the facts recorded after the first since, skipping fixture setup.
func (f *fixture) factsSince(since int) []audit.Fact {
	all := f.facts.Facts()
	if since > len(all) {
		return nil
	}
	return all[since:]
}

func grant(key string, scope model.Scope) model.GrantInput {
	return model.GrantInput{Key: key, Scope: scope}
}

func ptr[T any](v T) *T { return &v }
