package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	pdp_model "github.com/dev-mohitbeniwal/teamaccess/api/pdp/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// withRedisCache rebuilds the fixture's services over a miniredis-backed cache.
func withRedisCache(t *testing.T, f *fixture) (*AccessService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return withCache(f, util.NewRedisCache(client, time.Minute)), mr
}

func withCache(f *fixture, cache util.CacheService) *AccessService {
	f.deps.Cache = cache
	f.roles = NewRoleService(f.deps)
	f.users = NewUserService(f.deps)
	f.teams = NewTeamService(f.deps)
	return NewAccessService(f.deps)
}

func check(t *testing.T, s *AccessService, userID, perm string, teamID *string) *pdp_model.AccessDecision {
	t.Helper()
	d, err := s.Check(context.Background(), pdp_model.AccessRequest{
		UserID:     userID,
		Permission: perm,
		Resource:   pdp_model.ResourceContext{TeamID: teamID},
	})
	require.NoError(t, err)
	return d
}

func TestAccessScenarios(t *testing.T) {
	f := newFixture(t)
	access, _ := withRedisCache(t, f)
	ctx := context.Background()

	t1 := f.team(t, "T1")
	t2 := f.team(t, "T2")
	editor := f.role(t, "EDITOR", grant(catalog.UserUpdate, model.ScopeTeam))
	super := f.role(t, "SUPERADMIN", grant(catalog.UserUpdate, model.ScopeGlobal))
	u := f.user(t, "ann@example.com", &t1.ID, editor.ID)

	t.Run("A_TeamMatch", func(t *testing.T) {
		d := check(t, access, u.ID, catalog.UserUpdate, &t1.ID)
		assert.Equal(t, pdp_model.EffectAllow, d.Effect)
		assert.Equal(t, model.ScopeTeam, d.Scope)
		assert.Equal(t, []string{"EDITOR"}, d.MatchedRoles)
	})

	t.Run("B_OtherTeam", func(t *testing.T) {
		d := check(t, access, u.ID, catalog.UserUpdate, &t2.ID)
		assert.Equal(t, pdp_model.EffectDeny, d.Effect)
		assert.Equal(t, pdp_model.ReasonScopeMismatch, d.Reason)
	})

	t.Run("C_ExpiredAssignment", func(t *testing.T) {
		yesterday := fixedAt.Add(-24 * time.Hour)
		_, err := f.users.AssignRole(ctx, admin, u.ID, model.AssignmentInput{
			RoleID:    editor.ID,
			ValidFrom: ptr(yesterday.Add(-time.Hour)),
			ValidTill: &yesterday,
		})
		require.NoError(t, err)

		d := check(t, access, u.ID, catalog.UserUpdate, &t1.ID)
		assert.Equal(t, pdp_model.EffectDeny, d.Effect)
		assert.Equal(t, pdp_model.ReasonNoEffectiveGrant, d.Reason)

		_, err = f.users.AssignRole(ctx, admin, u.ID, model.AssignmentInput{RoleID: editor.ID})
		require.NoError(t, err)
	})

	t.Run("D_GlobalWins", func(t *testing.T) {
		_, err := f.users.AssignRole(ctx, admin, u.ID, model.AssignmentInput{RoleID: super.ID})
		require.NoError(t, err)

		d := check(t, access, u.ID, catalog.UserUpdate, &t2.ID)
		assert.Equal(t, pdp_model.EffectAllow, d.Effect)
		assert.Equal(t, model.ScopeGlobal, d.Scope)
	})

	t.Run("GrantRemovalSeenImmediately", func(t *testing.T) {
		_, err := f.roles.SetRolePermission(ctx, admin, super.ID, catalog.UserUpdate, nil)
		require.NoError(t, err)

		d := check(t, access, u.ID, catalog.UserUpdate, &t2.ID)
		assert.Equal(t, pdp_model.EffectDeny, d.Effect)
	})

	t.Run("RevokeSeenImmediately", func(t *testing.T) {
		_, err := f.users.RevokeAssignment(ctx, admin, u.ID, editor.ID)
		require.NoError(t, err)

		d := check(t, access, u.ID, catalog.UserUpdate, &t1.ID)
		assert.Equal(t, pdp_model.ReasonNoEffectiveGrant, d.Reason)
	})
}

func TestMutationAbortsWhenCacheUnreachable(t *testing.T) {
	f := newFixture(t)
	access, mr := withRedisCache(t, f)
	ctx := context.Background()

	super := f.role(t, "SUPERADMIN", grant(catalog.UserUpdate, model.ScopeGlobal))
	u := f.user(t, "ann@example.com", nil, super.ID)
	require.True(t, check(t, access, u.ID, catalog.UserUpdate, nil).Allowed())

	before := len(f.facts.Facts())
	mr.SetError("LOADING redis is loading")
	_, err := f.roles.SetRolePermission(ctx, admin, super.ID, catalog.UserUpdate, nil)
	require.Error(t, err)
	_, err = f.users.RevokeAssignment(ctx, admin, u.ID, super.ID)
	require.Error(t, err)
	mr.SetError("")
	assert.Empty(t, f.factsSince(before))

	// nothing was written, so the cached snapshots still agree with the store
	stored, err := f.store.GetRole(ctx, super.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Permissions, 1)
	assert.True(t, check(t, access, u.ID, catalog.UserUpdate, nil).Allowed())

	_, err = f.roles.SetRolePermission(ctx, admin, super.ID, catalog.UserUpdate, nil)
	require.NoError(t, err)
	assert.False(t, check(t, access, u.ID, catalog.UserUpdate, nil).Allowed())
}

// refreshFailingCache invalidates normally but cannot store fresh snapshots.
type refreshFailingCache struct {
	*util.RedisCache
}

func (refreshFailingCache) SetRole(context.Context, model.Role) error { return assert.AnError }
func (refreshFailingCache) SetUser(context.Context, model.User) error { return assert.AnError }

func TestFailedCacheRefreshNeverServesStaleGrants(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	access := withCache(f, refreshFailingCache{util.NewRedisCache(client, time.Minute)})
	ctx := context.Background()

	t1 := f.team(t, "T1")
	super := f.role(t, "SUPERADMIN", grant(catalog.UserUpdate, model.ScopeGlobal))
	editor := f.role(t, "EDITOR", grant(catalog.UserUpdate, model.ScopeTeam))
	u := f.user(t, "ann@example.com", &t1.ID, super.ID, editor.ID)
	require.True(t, check(t, access, u.ID, catalog.UserUpdate, nil).Allowed())

	_, err := f.roles.SetRolePermission(ctx, admin, super.ID, catalog.UserUpdate, nil)
	require.NoError(t, err)
	d := check(t, access, u.ID, catalog.UserUpdate, nil)
	assert.Equal(t, pdp_model.EffectDeny, d.Effect)
	assert.Equal(t, pdp_model.ReasonScopeMismatch, d.Reason)

	require.True(t, check(t, access, u.ID, catalog.UserUpdate, &t1.ID).Allowed())
	_, err = f.users.RevokeAssignment(ctx, admin, u.ID, editor.ID)
	require.NoError(t, err)
	assert.False(t, check(t, access, u.ID, catalog.UserUpdate, &t1.ID).Allowed())
}

func TestAccessCheckAsOf(t *testing.T) {
	f := newFixture(t)
	access := NewAccessService(f.deps)
	ctx := context.Background()

	from := fixedAt.Add(time.Hour)
	r := f.role(t, "LATER")
	_, err := f.roles.SetRolePermission(ctx, admin, r.ID, catalog.TeamRead, &model.GrantSpec{Scope: model.ScopeGlobal, ValidFrom: &from})
	require.NoError(t, err)
	u := f.user(t, "ann@example.com", nil, r.ID)

	now, err := access.Check(ctx, pdp_model.AccessRequest{UserID: u.ID, Permission: catalog.TeamRead})
	require.NoError(t, err)
	assert.False(t, now.Allowed())

	later, err := access.Check(ctx, pdp_model.AccessRequest{UserID: u.ID, Permission: catalog.TeamRead, AsOf: &from})
	require.NoError(t, err)
	assert.True(t, later.Allowed())
	assert.Equal(t, from, later.EvaluatedAt)
}

func TestAccessCheckErrors(t *testing.T) {
	f := newFixture(t)
	access := NewAccessService(f.deps)
	ctx := context.Background()

	_, err := access.Check(ctx, pdp_model.AccessRequest{Permission: catalog.TeamRead})
	assert.ErrorIs(t, err, ta_errors.ErrInvalidAccessRequest)

	_, err = access.Check(ctx, pdp_model.AccessRequest{UserID: "ghost", Permission: catalog.TeamRead})
	assert.ErrorIs(t, err, ta_errors.ErrUserNotFound)
}

func TestAccessCheckDanglingRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.role(t, "EDITOR", grant(catalog.TeamRead, model.ScopeGlobal))
	u := f.user(t, "ann@example.com", nil, r.ID)

	// Serve the user from a cache entry that still references a role the store no
	// longer has.
	cache := &staticUserCache{user: *u}
	cache.user.Assignments = append(cache.user.Assignments, model.RoleAssignment{Role: model.RoleRef{ID: "gone"}})
	f.deps.Cache = cache
	access := NewAccessService(f.deps)

	_, err := access.Check(ctx, pdp_model.AccessRequest{UserID: u.ID, Permission: catalog.TeamRead})
	var integrity *ta_errors.DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "gone", integrity.RoleID)
	assert.ErrorIs(t, err, ta_errors.ErrDataIntegrity)
}

type staticUserCache struct {
	util.NoopCache
	user model.User
}

func (c *staticUserCache) LoadUser(context.Context, string, func(context.Context) (*model.User, error)) (*model.User, error) {
	u := c.user.Clone()
	return &u, nil
}

func TestEffectivePermissions(t *testing.T) {
	f := newFixture(t)
	access := NewAccessService(f.deps)
	ctx := context.Background()

	editor := f.role(t, "EDITOR", grant(catalog.UserUpdate, model.ScopeTeam), grant(catalog.UserRead, model.ScopeSelf))
	viewer := f.role(t, "VIEWER", grant(catalog.UserRead, model.ScopeGlobal))
	u := f.user(t, "ann@example.com", nil, editor.ID, viewer.ID)

	perms, err := access.EffectivePermissions(ctx, u.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, catalog.UserRead, perms[0].Key)
	assert.Equal(t, model.ScopeGlobal, perms[0].Scope)
	assert.Equal(t, []string{"VIEWER"}, perms[0].Roles)
	assert.Equal(t, catalog.UserUpdate, perms[1].Key)
	assert.Equal(t, model.ScopeTeam, perms[1].Scope)

	_, err = f.users.UpdateUser(ctx, admin, u.ID, model.UserPatch{IsActive: ptr(false)})
	require.NoError(t, err)
	perms, err = access.EffectivePermissions(ctx, u.ID, fixedAt)
	require.NoError(t, err)
	assert.Empty(t, perms)
}
