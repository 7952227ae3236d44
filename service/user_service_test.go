package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.team(t, "Platform")
	r := f.role(t, "EDITOR")

	t.Run("Success", func(t *testing.T) {
		before := len(f.facts.Facts())
		u, err := f.users.CreateUser(ctx, admin, model.UserInput{
			Name:     "Ann",
			Email:    " Ann@Example.COM ",
			Password: "secret-pw",
			TeamID:   &team.ID,
			Roles:    []model.AssignmentInput{{RoleID: r.ID}},
		})
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", u.Email)
		assert.True(t, u.IsActive)
		require.NotNil(t, u.Team)
		assert.Equal(t, "Platform", u.Team.Name)
		require.Len(t, u.Assignments, 1)
		assert.Equal(t, "EDITOR", u.Assignments[0].Role.Name)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret-pw")))

		facts := f.factsSince(before)
		require.Len(t, facts, 1)
		assert.Equal(t, audit.ActionCreate, facts[0].Action)
		assert.Equal(t, audit.EntityUser, facts[0].Entity)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := f.users.CreateUser(ctx, admin, model.UserInput{Name: "Other", Email: "ANN@example.com", Password: "secret-pw"})
		assert.ErrorIs(t, err, ta_errors.ErrDuplicateName)
	})

	t.Run("MissingTeam", func(t *testing.T) {
		_, err := f.users.CreateUser(ctx, admin, model.UserInput{Name: "Bob", Email: "bob@example.com", Password: "secret-pw", TeamID: ptr("nope")})
		assert.ErrorIs(t, err, ta_errors.ErrTeamNotFound)
	})

	t.Run("MissingRole", func(t *testing.T) {
		_, err := f.users.CreateUser(ctx, admin, model.UserInput{
			Name: "Bob", Email: "bob@example.com", Password: "secret-pw",
			Roles: []model.AssignmentInput{{RoleID: "nope"}},
		})
		assert.ErrorIs(t, err, ta_errors.ErrRoleNotFound)
	})

	t.Run("RoleTwice", func(t *testing.T) {
		_, err := f.users.CreateUser(ctx, admin, model.UserInput{
			Name: "Bob", Email: "bob@example.com", Password: "secret-pw",
			Roles: []model.AssignmentInput{{RoleID: r.ID}, {RoleID: r.ID}},
		})
		assert.ErrorIs(t, err, ta_errors.ErrValidation)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		_, err := f.users.CreateUser(ctx, admin, model.UserInput{Name: "Bob", Email: "bob@example.com", Password: "abc"})
		assert.ErrorIs(t, err, ta_errors.ErrValidation)
	})
}

func TestAssignRoleReplacesInsteadOfStacking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.role(t, "EDITOR")
	other := f.role(t, "VIEWER")
	u := f.user(t, "ann@example.com", nil, r.ID, other.ID)

	till := fixedAt.Add(24 * time.Hour)
	before := len(f.facts.Facts())
	out, err := f.users.AssignRole(ctx, admin, u.ID, model.AssignmentInput{RoleID: r.ID, ValidTill: &till})
	require.NoError(t, err)

	require.Len(t, out.Assignments, 2)
	assert.Equal(t, r.ID, out.Assignments[0].Role.ID)
	require.NotNil(t, out.Assignments[0].ValidTill)
	assert.Equal(t, till, *out.Assignments[0].ValidTill)
	assert.Equal(t, other.ID, out.Assignments[1].Role.ID)

	facts := f.factsSince(before)
	require.Len(t, facts, 1)
	assert.Equal(t, audit.ActionUpdate, facts[0].Action)
	assert.Equal(t, audit.EntityUser, facts[0].Entity)
	assert.Equal(t, u.ID, facts[0].EntityID)
}

func TestAssignRoleAfterRevokeKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.role(t, "EDITOR")
	u := f.user(t, "ann@example.com", nil, r.ID)

	revoked, err := f.users.RevokeAssignment(ctx, admin, u.ID, r.ID)
	require.NoError(t, err)
	require.Len(t, revoked.Assignments, 1)
	assert.True(t, revoked.Assignments[0].Revoked)

	out, err := f.users.AssignRole(ctx, admin, u.ID, model.AssignmentInput{RoleID: r.ID})
	require.NoError(t, err)
	require.Len(t, out.Assignments, 2)
	assert.True(t, out.Assignments[0].Revoked)
	assert.False(t, out.Assignments[1].Revoked)
}

func TestAssignRoleErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.role(t, "EDITOR")
	u := f.user(t, "ann@example.com", nil)

	_, err := f.users.AssignRole(ctx, admin, u.ID, model.AssignmentInput{RoleID: "missing"})
	assert.ErrorIs(t, err, ta_errors.ErrRoleNotFound)

	_, err = f.users.AssignRole(ctx, admin, "missing", model.AssignmentInput{RoleID: r.ID})
	assert.ErrorIs(t, err, ta_errors.ErrUserNotFound)

	_, err = f.users.AssignRole(ctx, admin, u.ID, model.AssignmentInput{
		RoleID:    r.ID,
		ValidFrom: ptr(fixedAt),
		ValidTill: ptr(fixedAt.Add(-time.Minute)),
	})
	assert.ErrorIs(t, err, ta_errors.ErrValidation)
}

func TestRevokeAssignmentNotHeld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.role(t, "EDITOR")
	u := f.user(t, "ann@example.com", nil)

	before := len(f.facts.Facts())
	_, err := f.users.RevokeAssignment(ctx, admin, u.ID, r.ID)
	assert.ErrorIs(t, err, ta_errors.ErrAssignmentNotFound)
	assert.Empty(t, f.factsSince(before))
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.team(t, "Platform")
	u := f.user(t, "ann@example.com", nil)
	f.user(t, "bob@example.com", nil)

	out, err := f.users.UpdateUser(ctx, admin, u.ID, model.UserPatch{
		Name:     ptr("Ann Smith"),
		TeamID:   &team.ID,
		IsActive: ptr(false),
		Password: ptr("another-pw"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", out.Name)
	assert.False(t, out.IsActive)
	require.NotNil(t, out.Team)
	assert.Equal(t, team.ID, out.Team.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(out.PasswordHash), []byte("another-pw")))

	_, err = f.users.UpdateUser(ctx, admin, u.ID, model.UserPatch{Email: ptr("BOB@example.com")})
	assert.ErrorIs(t, err, ta_errors.ErrDuplicateName)

	cleared, err := f.users.UpdateUser(ctx, admin, u.ID, model.UserPatch{ClearTeam: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Team)

	_, err = f.users.UpdateUser(ctx, admin, u.ID, model.UserPatch{TeamID: ptr("nope")})
	assert.ErrorIs(t, err, ta_errors.ErrTeamNotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ann@example.com", nil)

	before := len(f.facts.Facts())
	require.NoError(t, f.users.DeleteUser(ctx, admin, u.ID))
	facts := f.factsSince(before)
	require.Len(t, facts, 1)
	assert.Equal(t, audit.ActionDelete, facts[0].Action)

	_, err := f.users.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, ta_errors.ErrUserNotFound)

	err = f.users.DeleteUser(ctx, admin, u.ID)
	assert.ErrorIs(t, err, ta_errors.ErrUserNotFound)
}

func TestAuditFailureDoesNotUndoMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.facts.Err = assert.AnError

	r, err := f.roles.CreateRole(ctx, admin, model.RoleInput{Name: "EDITOR"})
	require.NoError(t, err)

	stored, err := f.store.GetRole(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "EDITOR", stored.Name)
}
