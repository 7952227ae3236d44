// api/service/team_service.go
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

type ITeamService interface {
	CreateTeam(ctx context.Context, actor model.Actor, input model.TeamInput) (*model.Team, error)
	UpdateTeam(ctx context.Context, actor model.Actor, teamID string, input model.TeamInput) (*model.Team, error)
	// DeleteTeam fails with ErrTeamInUse while any user is a member.
	DeleteTeam(ctx context.Context, actor model.Actor, teamID string) error
	GetTeam(ctx context.Context, teamID string) (*model.Team, error)
	ListTeams(ctx context.Context, limit int, offset int) ([]*model.Team, error)
}

type TeamService struct {
	base
}

var _ ITeamService = &TeamService{}

func NewTeamService(deps Dependencies) *TeamService {
	return &TeamService{base: newBase(deps)}
}

func (s *TeamService) CreateTeam(ctx context.Context, actor model.Actor, input model.TeamInput) (_ *model.Team, err error) {
	now := s.now()
	team := model.Team{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	defer func() {
		s.done(ctx, actor, audit.ActionCreate, audit.EntityTeam, team.ID, util.EventTeamCreated, team, err)
	}()

	if err := s.deps.ValidationUtil.ValidateTeam(team); err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, util.TeamNameLockKey(team.Name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.ensureTeamNameFree(ctx, team.Name, ""); err != nil {
		return nil, err
	}
	if err := s.deps.Store.CreateTeam(ctx, team); err != nil {
		logger.Error("Error creating team", zap.Error(err), zap.String("teamName", team.Name), zap.String("actorID", actor.ID))
		return nil, err
	}

	logger.Info("Team created successfully", zap.String("teamID", team.ID), zap.String("actorID", actor.ID))
	return &team, nil
}

// UpdateTeam renames the team or changes its description.
func (s *TeamService) UpdateTeam(ctx context.Context, actor model.Actor, teamID string, input model.TeamInput) (_ *model.Team, err error) {
	var updated model.Team
	defer func() {
		s.done(ctx, actor, audit.ActionUpdate, audit.EntityTeam, teamID, util.EventTeamUpdated, updated, err)
	}()

	name := strings.TrimSpace(input.Name)
	unlock, err := s.lock(ctx, util.TeamLockKey(teamID), util.TeamNameLockKey(name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.deps.Store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	updated = *current
	updated.Name = name
	updated.Description = strings.TrimSpace(input.Description)
	if err := s.deps.ValidationUtil.ValidateTeam(updated); err != nil {
		return nil, err
	}
	if !strings.EqualFold(updated.Name, current.Name) {
		if err := s.ensureTeamNameFree(ctx, updated.Name, teamID); err != nil {
			return nil, err
		}
	}

	updated.UpdatedAt = s.now()
	if err := s.deps.Store.UpdateTeam(ctx, updated); err != nil {
		logger.Error("Error updating team", zap.Error(err), zap.String("teamID", teamID), zap.String("actorID", actor.ID))
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	logger.Info("Team updated successfully", zap.String("teamID", teamID), zap.String("actorID", actor.ID))
	return &updated, nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, actor model.Actor, teamID string) (err error) {
	defer func() {
		s.done(ctx, actor, audit.ActionDelete, audit.EntityTeam, teamID, util.EventTeamDeleted, nil, err)
	}()

	unlock, err := s.lock(ctx, util.TeamLockKey(teamID))
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.deps.Store.DeleteTeam(ctx, teamID); err != nil {
		logger.Error("Error deleting team", zap.Error(err), zap.String("teamID", teamID), zap.String("actorID", actor.ID))
		return fmt.Errorf("failed to delete team: %w", err)
	}

	logger.Info("Team deleted successfully", zap.String("teamID", teamID), zap.String("actorID", actor.ID))
	return nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	team, err := s.deps.Store.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, ta_errors.ErrTeamNotFound) {
			return nil, ta_errors.ErrTeamNotFound
		}
		logger.Error("Error retrieving team", zap.Error(err), zap.String("teamID", teamID))
		return nil, err
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context, limit int, offset int) ([]*model.Team, error) {
	teams, err := s.deps.Store.ListTeams(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing teams", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) ensureTeamNameFree(ctx context.Context, name, ownID string) error {
	existing, err := s.deps.Store.GetTeamByName(ctx, name)
	switch {
	case errors.Is(err, ta_errors.ErrTeamNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownID:
		return fmt.Errorf("%w: team %s", ta_errors.ErrDuplicateName, name)
	}
	return nil
}
