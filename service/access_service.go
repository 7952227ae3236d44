// api/service/access_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/dao"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/metrics"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/teamaccess/api/pdp/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

type IAccessService interface {
	// Check answers one access request. A deny is returned as a decision.
	Check(ctx context.Context, req pdp_model.AccessRequest) (*pdp_model.AccessDecision, error)
	EffectivePermissions(ctx context.Context, userID string, asOf time.Time) ([]pdp_model.EffectivePermission, error)
}

// AccessService loads user and role snapshots and hands them to the evaluator. It never
// writes.
type AccessService struct {
	store     dao.Store
	cache     util.CacheService
	evaluator *engine.PermissionEvaluator
	metrics   *metrics.Metrics
	now       func() time.Time
}

var _ IAccessService = &AccessService{}

func NewAccessService(deps Dependencies) *AccessService {
	b := newBase(deps)
	return &AccessService{
		store:     b.deps.Store,
		cache:     b.deps.Cache,
		evaluator: engine.NewPermissionEvaluator(),
		metrics:   b.deps.Metrics,
		now:       b.deps.Now,
	}
}

func (s *AccessService) Check(ctx context.Context, req pdp_model.AccessRequest) (*pdp_model.AccessDecision, error) {
	if req.UserID == "" || req.Permission == "" {
		return nil, fmt.Errorf("%w: userId and permission are required", ta_errors.ErrInvalidAccessRequest)
	}
	asOf := s.asOf(req.AsOf)

	user, roles, err := s.snapshot(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	decision, err := s.evaluator.Evaluate(*user, roles, req.Permission, req.Resource, asOf)
	if err != nil {
		s.logIntegrity(err, req.UserID)
		return nil, err
	}
	s.metrics.ObserveDecision(req.Permission, decision.Effect, decision.Reason, time.Since(start))

	logger.Debug("Access evaluated",
		zap.String("userID", req.UserID),
		zap.String("permission", req.Permission),
		zap.String("effect", decision.Effect),
		zap.String("reason", decision.Reason),
		zap.Time("asOf", asOf))
	return decision, nil
}

func (s *AccessService) EffectivePermissions(ctx context.Context, userID string, asOf time.Time) ([]pdp_model.EffectivePermission, error) {
	user, roles, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	perms, err := s.evaluator.EffectivePermissions(*user, roles, asOf)
	if err != nil {
		s.logIntegrity(err, userID)
		return nil, err
	}
	return perms, nil
}

func (s *AccessService) asOf(at *time.Time) time.Time {
	if at != nil {
		return at.UTC()
	}
	return s.now().UTC()
}

// snapshot loads the user and every role referenced by a non-revoked assignment. A role
// that no longer exists is left out so the evaluator can report it.
func (s *AccessService) snapshot(ctx context.Context, userID string) (*model.User, engine.RoleSnapshot, error) {
	user, err := s.cache.LoadUser(ctx, userID, func(ctx context.Context) (*model.User, error) {
		return s.store.GetUser(ctx, userID)
	})
	if err != nil {
		if !errors.Is(err, ta_errors.ErrUserNotFound) {
			logger.Error("Error loading user for access check", zap.Error(err), zap.String("userID", userID))
		}
		return nil, nil, err
	}

	roles := make(engine.RoleSnapshot, len(user.Assignments))
	for _, a := range user.Assignments {
		if a.Revoked {
			continue
		}
		if _, ok := roles[a.Role.ID]; ok {
			continue
		}
		roleID := a.Role.ID
		role, err := s.cache.LoadRole(ctx, roleID, func(ctx context.Context) (*model.Role, error) {
			return s.store.GetRole(ctx, roleID)
		})
		switch {
		case errors.Is(err, ta_errors.ErrRoleNotFound):
			continue
		case err != nil:
			logger.Error("Error loading role for access check", zap.Error(err), zap.String("userID", userID), zap.String("roleID", roleID))
			return nil, nil, err
		}
		roles[role.ID] = *role
	}
	return user, roles, nil
}

func (s *AccessService) logIntegrity(err error, userID string) {
	var integrity *ta_errors.DataIntegrityError
	if errors.As(err, &integrity) {
		logger.Error("User references a missing role",
			zap.String("userID", integrity.UserID),
			zap.String("roleID", integrity.RoleID))
		return
	}
	logger.Error("Error evaluating access", zap.Error(err), zap.String("userID", userID))
}
