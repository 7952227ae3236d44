// api/service/role_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// IRoleService defines the interface for role operations
type IRoleService interface {
	CreateRole(ctx context.Context, actor model.Actor, input model.RoleInput) (*model.Role, error)
	UpdateRole(ctx context.Context, actor model.Actor, roleID string, patch model.RolePatch) (*model.Role, error)
	// SetRolePermission replaces the grant for key with desired, or removes it when
	// desired is nil. A role never holds two grants for one key.
	SetRolePermission(ctx context.Context, actor model.Actor, roleID, key string, desired *model.GrantSpec) (*model.Role, error)
	ReplaceRolePermissions(ctx context.Context, actor model.Actor, roleID string, grants []model.GrantInput) (*model.Role, error)
	DeactivateRole(ctx context.Context, actor model.Actor, roleID string) (*model.Role, error)
	DeleteRole(ctx context.Context, actor model.Actor, roleID string) error
	GetRole(ctx context.Context, roleID string) (*model.Role, error)
	ListRoles(ctx context.Context, limit int, offset int) ([]*model.Role, error)
	ListPublicRoles(ctx context.Context) ([]model.RoleRef, error)
}

// RoleService handles business logic for role operations
type RoleService struct {
	base
}

var _ IRoleService = &RoleService{}

func NewRoleService(deps Dependencies) *RoleService {
	return &RoleService{base: newBase(deps)}
}

// NormalizeRoleName is the stored form of a role name.
func NormalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func toGrants(inputs []model.GrantInput) []model.PermissionGrant {
	grants := make([]model.PermissionGrant, 0, len(inputs))
	for _, in := range inputs {
		grants = append(grants, in.ToGrant())
	}
	return grants
}

// CreateRole handles the creation of a new role
func (s *RoleService) CreateRole(ctx context.Context, actor model.Actor, input model.RoleInput) (_ *model.Role, err error) {
	now := s.now()
	created := model.Role{
		ID:          uuid.New().String(),
		Name:        NormalizeRoleName(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
		ValidFrom:   model.CloneTime(input.ValidFrom),
		ValidTill:   model.CloneTime(input.ValidTill),
		Permissions: toGrants(input.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if created.ValidFrom == nil {
		created.ValidFrom = &now
	}
	defer func() {
		s.done(ctx, actor, audit.ActionCreate, audit.EntityRole, created.ID, util.EventRoleCreated, created, err)
	}()

	if err := s.deps.ValidationUtil.ValidateRole(created); err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, util.RoleNameLockKey(created.Name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.ensureRoleNameFree(ctx, created.Name, ""); err != nil {
		return nil, err
	}
	if err := s.deps.Store.CreateRole(ctx, created); err != nil {
		logger.Error("Error creating role", zap.Error(err), zap.String("roleName", created.Name), zap.String("actorID", actor.ID))
		return nil, err
	}
	s.cacheRole(ctx, created)

	logger.Info("Role created successfully", zap.String("roleID", created.ID), zap.String("actorID", actor.ID))
	return &created, nil
}

// UpdateRole applies patch to the stored role as one replacement write.
func (s *RoleService) UpdateRole(ctx context.Context, actor model.Actor, roleID string, patch model.RolePatch) (*model.Role, error) {
	keys := []string{util.RoleLockKey(roleID)}
	if patch.Name != nil {
		keys = append(keys, util.RoleNameLockKey(NormalizeRoleName(*patch.Name)))
	}

	return s.mutate(ctx, actor, roleID, keys, func(role *model.Role) error {
		if patch.Name != nil {
			name := NormalizeRoleName(*patch.Name)
			if name != role.Name {
				if err := s.ensureRoleNameFree(ctx, name, role.ID); err != nil {
					return err
				}
			}
			role.Name = name
		}
		if patch.Description != nil {
			role.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.IsActive != nil {
			role.IsActive = *patch.IsActive
		}
		switch {
		case patch.ClearValidFrom:
			role.ValidFrom = nil
		case patch.ValidFrom != nil:
			role.ValidFrom = model.CloneTime(patch.ValidFrom)
		}
		switch {
		case patch.ClearValidTill:
			role.ValidTill = nil
		case patch.ValidTill != nil:
			role.ValidTill = model.CloneTime(patch.ValidTill)
		}
		if patch.Permissions != nil {
			role.Permissions = toGrants(*patch.Permissions)
		}
		return nil
	})
}

func (s *RoleService) SetRolePermission(ctx context.Context, actor model.Actor, roleID, key string, desired *model.GrantSpec) (*model.Role, error) {
	return s.mutate(ctx, actor, roleID, []string{util.RoleLockKey(roleID)}, func(role *model.Role) error {
		grants := make([]model.PermissionGrant, 0, len(role.Permissions)+1)
		replaced := false
		for _, g := range role.Permissions {
			if g.Key != key {
				grants = append(grants, g)
				continue
			}
			if desired != nil && !replaced {
				grants = append(grants, grantFromSpec(key, *desired))
				replaced = true
			}
		}
		if desired != nil && !replaced {
			grants = append(grants, grantFromSpec(key, *desired))
		}
		if desired == nil && len(grants) == len(role.Permissions) {
			return errUnchanged
		}
		role.Permissions = grants
		return nil
	})
}

func grantFromSpec(key string, spec model.GrantSpec) model.PermissionGrant {
	g := model.PermissionGrant{
		Key:       key,
		Scope:     spec.Scope,
		Active:    true,
		ValidFrom: model.CloneTime(spec.ValidFrom),
		ValidTill: model.CloneTime(spec.ValidTill),
	}
	if g.Scope == "" {
		g.Scope = model.ScopeGlobal
	}
	return g
}

func (s *RoleService) ReplaceRolePermissions(ctx context.Context, actor model.Actor, roleID string, grants []model.GrantInput) (*model.Role, error) {
	return s.mutate(ctx, actor, roleID, []string{util.RoleLockKey(roleID)}, func(role *model.Role) error {
		role.Permissions = toGrants(grants)
		return nil
	})
}

// DeactivateRole is the soft alternative to DeleteRole for roles that are still held.
func (s *RoleService) DeactivateRole(ctx context.Context, actor model.Actor, roleID string) (*model.Role, error) {
	return s.mutate(ctx, actor, roleID, []string{util.RoleLockKey(roleID)}, func(role *model.Role) error {
		if !role.IsActive {
			return errUnchanged
		}
		role.IsActive = false
		return nil
	})
}

// errUnchanged lets an edit report that the stored role already matches.
var errUnchanged = errors.New("unchanged")

// mutate runs one read-modify-write cycle on a role under keys. The edit works on a
// private copy; nothing is written unless the edited role validates.
func (s *RoleService) mutate(ctx context.Context, actor model.Actor, roleID string, keys []string, edit func(*model.Role) error) (_ *model.Role, err error) {
	var updated model.Role
	changed := false
	defer func() {
		if err == nil && !changed {
			return
		}
		s.done(ctx, actor, audit.ActionUpdate, audit.EntityRole, roleID, util.EventRoleUpdated, updated, err)
	}()

	unlock, err := s.lock(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.deps.Store.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	updated = current.Clone()
	if err := edit(&updated); err != nil {
		if errors.Is(err, errUnchanged) {
			return current, nil
		}
		return nil, err
	}
	if err := s.deps.ValidationUtil.ValidateRole(updated); err != nil {
		return nil, err
	}

	updated.UpdatedAt = s.now()
	if err := s.invalidateRole(ctx, roleID); err != nil {
		return nil, err
	}
	if err := s.deps.Store.UpdateRole(ctx, updated); err != nil {
		logger.Error("Error updating role", zap.Error(err), zap.String("roleID", roleID), zap.String("actorID", actor.ID))
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	changed = true
	s.cacheRole(ctx, updated)

	logger.Info("Role updated successfully", zap.String("roleID", roleID), zap.String("actorID", actor.ID))
	return &updated, nil
}

// DeleteRole handles the deletion of a role
func (s *RoleService) DeleteRole(ctx context.Context, actor model.Actor, roleID string) (err error) {
	defer func() {
		s.done(ctx, actor, audit.ActionDelete, audit.EntityRole, roleID, util.EventRoleDeleted, nil, err)
	}()

	unlock, err := s.lock(ctx, util.RoleLockKey(roleID))
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.invalidateRole(ctx, roleID); err != nil {
		return err
	}
	if err := s.deps.Store.DeleteRole(ctx, roleID); err != nil {
		logger.Error("Error deleting role", zap.Error(err), zap.String("roleID", roleID), zap.String("actorID", actor.ID))
		return fmt.Errorf("failed to delete role: %w", err)
	}

	logger.Info("Role deleted successfully", zap.String("roleID", roleID), zap.String("actorID", actor.ID))
	return nil
}

// GetRole reads the stored role. Management reads skip the cache so they always see the
// names and windows as written.
func (s *RoleService) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	role, err := s.deps.Store.GetRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, ta_errors.ErrRoleNotFound) {
			return nil, ta_errors.ErrRoleNotFound
		}
		logger.Error("Error retrieving role", zap.Error(err), zap.String("roleID", roleID))
		return nil, err
	}
	return role, nil
}

// ListRoles retrieves all roles, possibly with pagination
func (s *RoleService) ListRoles(ctx context.Context, limit int, offset int) ([]*model.Role, error) {
	roles, err := s.deps.Store.ListRoles(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing roles", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// ListPublicRoles returns the id and name of every role that is currently usable, for
// pickers that must not see grants.
func (s *RoleService) ListPublicRoles(ctx context.Context) ([]model.RoleRef, error) {
	roles, err := s.deps.Store.ListRoles(ctx, 0, 0)
	if err != nil {
		logger.Error("Error listing public roles", zap.Error(err))
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	now := s.now()
	refs := make([]model.RoleRef, 0, len(roles))
	for _, r := range roles {
		if r.IsActive && (r.ValidTill == nil || !now.After(*r.ValidTill)) {
			refs = append(refs, r.Ref())
		}
	}
	return refs, nil
}

func (s *RoleService) ensureRoleNameFree(ctx context.Context, name, ownID string) error {
	existing, err := s.deps.Store.GetRoleByName(ctx, name)
	switch {
	case errors.Is(err, ta_errors.ErrRoleNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownID:
		return fmt.Errorf("%w: role %s", ta_errors.ErrDuplicateName, name)
	}
	return nil
}

// invalidateRole tombstones the cached role before a store write. Until cacheRole
// replaces the tombstone, readers go to the store, so a failed refresh can only cost a
// cache miss. A failed invalidation aborts the write.
func (s *RoleService) invalidateRole(ctx context.Context, roleID string) error {
	if err := s.deps.Cache.DeleteRole(ctx, roleID); err != nil {
		logger.Error("Failed to invalidate cached role", zap.Error(err), zap.String("roleID", roleID))
		return fmt.Errorf("failed to invalidate cached role: %w", err)
	}
	return nil
}

func (s *RoleService) cacheRole(ctx context.Context, role model.Role) {
	if err := s.deps.Cache.SetRole(ctx, role); err != nil {
		logger.Warn("Failed to cache role", zap.Error(err), zap.String("roleID", role.ID))
	}
}
