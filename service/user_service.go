// api/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// IUserService defines the interface for user operations
type IUserService interface {
	CreateUser(ctx context.Context, actor model.Actor, input model.UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, actor model.Actor, userID string, patch model.UserPatch) (*model.User, error)
	// AssignRole gives the user roleID. A non-revoked assignment of the same role is
	// replaced, never stacked.
	AssignRole(ctx context.Context, actor model.Actor, userID string, input model.AssignmentInput) (*model.User, error)
	// RevokeAssignment marks the user's assignments of roleID revoked and keeps them.
	RevokeAssignment(ctx context.Context, actor model.Actor, userID, roleID string) (*model.User, error)
	DeleteUser(ctx context.Context, actor model.Actor, userID string) error
	GetUser(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error)
}

// UserService handles business logic for user operations
type UserService struct {
	base
}

var _ IUserService = &UserService{}

func NewUserService(deps Dependencies) *UserService {
	return &UserService{base: newBase(deps)}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CreateUser handles the creation of a new user
func (s *UserService) CreateUser(ctx context.Context, actor model.Actor, input model.UserInput) (_ *model.User, err error) {
	now := s.now()
	user := model.User{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Email:       NormalizeEmail(input.Email),
		IsActive:    true,
		Assignments: []model.RoleAssignment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var stored *model.User
	defer func() {
		var payload interface{}
		if stored != nil {
			payload = *stored
		}
		s.done(ctx, actor, audit.ActionCreate, audit.EntityUser, user.ID, util.EventUserCreated, payload, err)
	}()

	keys := []string{util.EmailLockKey(user.Email)}
	if input.TeamID != nil && *input.TeamID != "" {
		user.Team = &model.TeamRef{ID: *input.TeamID}
		keys = append(keys, util.TeamLockKey(*input.TeamID))
	}
	seen := make(map[string]bool, len(input.Roles))
	for i, r := range input.Roles {
		if seen[r.RoleID] {
			return nil, ta_errors.NewValidationError(fmt.Sprintf("roles[%d].role", i), "role assigned twice")
		}
		seen[r.RoleID] = true
		user.Assignments = append(user.Assignments, model.RoleAssignment{
			Role:      model.RoleRef{ID: r.RoleID},
			ValidFrom: model.CloneTime(r.ValidFrom),
			ValidTill: model.CloneTime(r.ValidTill),
		})
		keys = append(keys, util.RoleLockKey(r.RoleID))
	}

	if err := s.deps.ValidationUtil.ValidateUser(user); err != nil {
		return nil, err
	}
	if len(input.Password) < 6 {
		return nil, ta_errors.NewValidationError("password", "password must be at least 6 characters")
	}
	if user.PasswordHash, err = hashPassword(input.Password); err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.ensureEmailFree(ctx, user.Email, ""); err != nil {
		return nil, err
	}
	if err := s.deps.Store.CreateUser(ctx, user); err != nil {
		logger.Error("Error creating user", zap.Error(err), zap.String("email", user.Email), zap.String("actorID", actor.ID))
		return nil, err
	}

	if stored, err = s.reload(ctx, user.ID); err != nil {
		return nil, err
	}

	logger.Info("User created successfully", zap.String("userID", user.ID), zap.String("actorID", actor.ID))
	return stored, nil
}

// UpdateUser changes profile fields, activation and team membership.
func (s *UserService) UpdateUser(ctx context.Context, actor model.Actor, userID string, patch model.UserPatch) (*model.User, error) {
	keys := []string{util.UserLockKey(userID)}
	if patch.Email != nil {
		keys = append(keys, util.EmailLockKey(NormalizeEmail(*patch.Email)))
	}
	if patch.TeamID != nil && *patch.TeamID != "" && !patch.ClearTeam {
		keys = append(keys, util.TeamLockKey(*patch.TeamID))
	}

	var hash string
	if patch.Password != nil {
		if len(*patch.Password) < 6 {
			return nil, ta_errors.NewValidationError("password", "password must be at least 6 characters")
		}
		var err error
		if hash, err = hashPassword(*patch.Password); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, actor, userID, keys, func(user *model.User) error {
		if patch.Name != nil {
			user.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			email := NormalizeEmail(*patch.Email)
			if email != user.Email {
				if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
					return err
				}
			}
			user.Email = email
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		if patch.IsActive != nil {
			user.IsActive = *patch.IsActive
		}
		switch {
		case patch.ClearTeam:
			user.Team = nil
		case patch.TeamID != nil && *patch.TeamID == "":
			user.Team = nil
		case patch.TeamID != nil:
			user.Team = &model.TeamRef{ID: *patch.TeamID}
		}
		return nil
	})
}

func (s *UserService) AssignRole(ctx context.Context, actor model.Actor, userID string, input model.AssignmentInput) (*model.User, error) {
	keys := []string{util.UserLockKey(userID), util.RoleLockKey(input.RoleID)}

	return s.mutate(ctx, actor, userID, keys, func(user *model.User) error {
		role, err := s.deps.Store.GetRole(ctx, input.RoleID)
		if err != nil {
			return err
		}

		next := model.RoleAssignment{
			Role:      role.Ref(),
			ValidFrom: model.CloneTime(input.ValidFrom),
			ValidTill: model.CloneTime(input.ValidTill),
		}
		assignments := make([]model.RoleAssignment, 0, len(user.Assignments)+1)
		placed := false
		for _, a := range user.Assignments {
			if a.Role.ID != role.ID || a.Revoked {
				assignments = append(assignments, a)
				continue
			}
			if !placed {
				assignments = append(assignments, next)
				placed = true
			}
		}
		if !placed {
			assignments = append(assignments, next)
		}
		user.Assignments = assignments
		return nil
	})
}

func (s *UserService) RevokeAssignment(ctx context.Context, actor model.Actor, userID, roleID string) (*model.User, error) {
	return s.mutate(ctx, actor, userID, []string{util.UserLockKey(userID)}, func(user *model.User) error {
		found := false
		for i := range user.Assignments {
			if user.Assignments[i].Role.ID == roleID && !user.Assignments[i].Revoked {
				user.Assignments[i].Revoked = true
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: user %s has no active assignment of role %s", ta_errors.ErrAssignmentNotFound, userID, roleID)
		}
		return nil
	})
}

// mutate runs one read-modify-write cycle on a user under keys. The edit receives a
// private copy read straight from the store.
func (s *UserService) mutate(ctx context.Context, actor model.Actor, userID string, keys []string, edit func(*model.User) error) (_ *model.User, err error) {
	var stored *model.User
	defer func() {
		var payload interface{}
		if stored != nil {
			payload = *stored
		}
		s.done(ctx, actor, audit.ActionUpdate, audit.EntityUser, userID, util.EventUserUpdated, payload, err)
	}()

	unlock, err := s.lock(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.deps.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	if err := edit(&updated); err != nil {
		return nil, err
	}
	if err := s.deps.ValidationUtil.ValidateUser(updated); err != nil {
		return nil, err
	}

	updated.UpdatedAt = s.now()
	if err := s.invalidateUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.deps.Store.UpdateUser(ctx, updated); err != nil {
		logger.Error("Error updating user", zap.Error(err), zap.String("userID", userID), zap.String("actorID", actor.ID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if stored, err = s.reload(ctx, userID); err != nil {
		return nil, err
	}

	logger.Info("User updated successfully", zap.String("userID", userID), zap.String("actorID", actor.ID))
	return stored, nil
}

// DeleteUser hard-deletes the user together with its assignments.
func (s *UserService) DeleteUser(ctx context.Context, actor model.Actor, userID string) (err error) {
	defer func() {
		s.done(ctx, actor, audit.ActionDelete, audit.EntityUser, userID, util.EventUserDeleted, nil, err)
	}()

	unlock, err := s.lock(ctx, util.UserLockKey(userID))
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.invalidateUser(ctx, userID); err != nil {
		return err
	}
	if err := s.deps.Store.DeleteUser(ctx, userID); err != nil {
		logger.Error("Error deleting user", zap.Error(err), zap.String("userID", userID), zap.String("actorID", actor.ID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Info("User deleted successfully", zap.String("userID", userID), zap.String("actorID", actor.ID))
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.deps.Store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ta_errors.ErrUserNotFound) {
			return nil, ta_errors.ErrUserNotFound
		}
		logger.Error("Error retrieving user", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	users, err := s.deps.Store.ListUsers(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing users", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// reload reads the user back so team and role names are resolved, then refreshes the
// cache while the caller still holds the user lock.
func (s *UserService) reload(ctx context.Context, userID string) (*model.User, error) {
	stored, err := s.deps.Store.GetUser(ctx, userID)
	if err != nil {
		logger.Error("Error reading back user", zap.Error(err), zap.String("userID", userID))
		return nil, err
	}
	if err := s.deps.Cache.SetUser(ctx, *stored); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}
	return stored, nil
}

// invalidateUser tombstones the cached user before a store write; see invalidateRole.
func (s *UserService) invalidateUser(ctx context.Context, userID string) error {
	if err := s.deps.Cache.DeleteUser(ctx, userID); err != nil {
		logger.Error("Failed to invalidate cached user", zap.Error(err), zap.String("userID", userID))
		return fmt.Errorf("failed to invalidate cached user: %w", err)
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, ownID string) error {
	existing, err := s.deps.Store.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ta_errors.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownID:
		return fmt.Errorf("%w: email %s", ta_errors.ErrDuplicateName, email)
	}
	return nil
}

