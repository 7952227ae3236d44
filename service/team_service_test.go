package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

func TestTeamLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	team := f.team(t, " Platform ")
	assert.Equal(t, "Platform", team.Name)

	_, err := f.teams.CreateTeam(ctx, admin, model.TeamInput{Name: "platform"})
	assert.ErrorIs(t, err, ta_errors.ErrDuplicateName)

	_, err = f.teams.CreateTeam(ctx, admin, model.TeamInput{Name: "  "})
	assert.ErrorIs(t, err, ta_errors.ErrValidation)

	renamed, err := f.teams.UpdateTeam(ctx, admin, team.ID, model.TeamInput{Name: "Infra", Description: "infra team"})
	require.NoError(t, err)
	assert.Equal(t, "Infra", renamed.Name)

	// a user's team ref follows the rename
	u := f.user(t, "ann@example.com", &team.ID)
	assert.Equal(t, "Infra", u.Team.Name)

	f.team(t, "Data")
	_, err = f.teams.UpdateTeam(ctx, admin, team.ID, model.TeamInput{Name: "DATA"})
	assert.ErrorIs(t, err, ta_errors.ErrDuplicateName)

	teams, err := f.teams.ListTeams(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}

func TestDeleteTeamInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.team(t, "T1")
	u := f.user(t, "ann@example.com", &t1.ID)

	before := len(f.facts.Facts())
	err := f.teams.DeleteTeam(ctx, admin, t1.ID)
	assert.ErrorIs(t, err, ta_errors.ErrTeamInUse)
	assert.Empty(t, f.factsSince(before))

	team, err := f.teams.GetTeam(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, "T1", team.Name)
	stored, err := f.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Team)
	assert.Equal(t, t1.ID, stored.Team.ID)

	_, err = f.users.UpdateUser(ctx, admin, u.ID, model.UserPatch{ClearTeam: true})
	require.NoError(t, err)

	before = len(f.facts.Facts())
	require.NoError(t, f.teams.DeleteTeam(ctx, admin, t1.ID))
	facts := f.factsSince(before)
	require.Len(t, facts, 1)
	assert.Equal(t, audit.ActionDelete, facts[0].Action)
	assert.Equal(t, audit.EntityTeam, facts[0].Entity)

	_, err = f.teams.GetTeam(ctx, t1.ID)
	assert.ErrorIs(t, err, ta_errors.ErrTeamNotFound)
}
