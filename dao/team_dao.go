// api/dao/team_dao.go
package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/db"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	ta_neo4j "github.com/dev-mohitbeniwal/teamaccess/api/model/neo4j"
)

// TeamDAO stores teams as nodes. nameKey holds the lower-cased name and carries the
// uniqueness constraint.
type TeamDAO struct {
	Driver neo4j.DriverWithContext
}

var _ TeamStore = (*TeamDAO)(nil)

func NewTeamDAO(driver neo4j.DriverWithContext) *TeamDAO {
	dao := &TeamDAO{Driver: driver}
	if err := dao.EnsureUniqueConstraint(context.Background()); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Team", zap.Error(err))
	}
	return dao
}

func (dao *TeamDAO) EnsureUniqueConstraint(ctx context.Context) error {
	return ensureConstraints(ctx, dao.Driver, ta_neo4j.LabelTeam,
		`CREATE CONSTRAINT unique_team_id IF NOT EXISTS FOR (t:`+ta_neo4j.LabelTeam+`) REQUIRE t.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_team_name IF NOT EXISTS FOR (t:`+ta_neo4j.LabelTeam+`) REQUIRE t.nameKey IS UNIQUE`,
	)
}

func (dao *TeamDAO) CreateTeam(ctx context.Context, team model.Team) error {
	start := time.Now()
	logger.Info("Creating new team", zap.String("teamName", team.Name))

	_, err := db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			CREATE (t:` + ta_neo4j.LabelTeam + ` {
				id: $id,
				name: $name,
				nameKey: $nameKey,
				description: $description,
				createdAt: $createdAt,
				updatedAt: $updatedAt
			})
		`
		result, err := tx.Run(ctx, query, teamParams(team))
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create team",
			zap.Error(err),
			zap.String("teamName", team.Name),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}

	logger.Info("Team created successfully",
		zap.String("teamID", team.ID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *TeamDAO) UpdateTeam(ctx context.Context, team model.Team) error {
	start := time.Now()
	logger.Info("Updating team", zap.String("teamID", team.ID))

	_, err := db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (t:` + ta_neo4j.LabelTeam + ` {id: $id})
			SET t.name = $name,
				t.nameKey = $nameKey,
				t.description = $description,
				t.updatedAt = $updatedAt
			RETURN t.id AS id
		`
		result, err := tx.Run(ctx, query, teamParams(team))
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ta_errors.ErrTeamNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update team",
			zap.Error(err),
			zap.String("teamID", team.ID),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}

	logger.Info("Team updated successfully",
		zap.String("teamID", team.ID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *TeamDAO) DeleteTeam(ctx context.Context, teamID string) error {
	start := time.Now()
	logger.Info("Deleting team", zap.String("teamID", teamID))

	_, err := db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (t:` + ta_neo4j.LabelTeam + ` {id: $id})
			SET t.deletedAt = $now
			WITH t
			OPTIONAL MATCH (u:` + ta_neo4j.LabelUser + `)-[:` + ta_neo4j.RelMemberOf + `]->(t)
			RETURN count(u) AS members
		`
		result, err := tx.Run(ctx, query, map[string]any{"id": teamID, "now": formatTime(time.Now())})
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ta_errors.ErrTeamNotFound
		}
		if members, _ := records[0].Get("members"); members.(int64) > 0 {
			return nil, ta_errors.ErrTeamInUse
		}

		result, err = tx.Run(ctx, `MATCH (t:`+ta_neo4j.LabelTeam+` {id: $id}) DETACH DELETE t`, map[string]any{"id": teamID})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete team",
			zap.Error(err),
			zap.String("teamID", teamID),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}

	logger.Info("Team deleted successfully",
		zap.String("teamID", teamID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *TeamDAO) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	teams, err := dao.queryTeams(ctx,
		`MATCH (t:`+ta_neo4j.LabelTeam+` {id: $id}) RETURN t {.*} AS team`,
		map[string]any{"id": teamID})
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ta_errors.ErrTeamNotFound
	}
	return teams[0], nil
}

func (dao *TeamDAO) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	teams, err := dao.queryTeams(ctx,
		`MATCH (t:`+ta_neo4j.LabelTeam+` {nameKey: $nameKey}) RETURN t {.*} AS team`,
		map[string]any{"nameKey": strings.ToLower(name)})
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ta_errors.ErrTeamNotFound
	}
	return teams[0], nil
}

func (dao *TeamDAO) ListTeams(ctx context.Context, limit, offset int) ([]*model.Team, error) {
	teams, err := dao.queryTeams(ctx,
		`MATCH (t:`+ta_neo4j.LabelTeam+`) RETURN t {.*} AS team ORDER BY t.name SKIP $offset LIMIT $limit`,
		pageParams(limit, offset))
	if err != nil {
		logger.Error("Failed to list teams", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, err
	}
	return teams, nil
}

func (dao *TeamDAO) queryTeams(ctx context.Context, query string, params map[string]any) ([]*model.Team, error) {
	teams, err := db.ExecuteRead(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) ([]*model.Team, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		teams := make([]*model.Team, 0, len(records))
		for _, record := range records {
			props, ok := recordMap(record, "team")
			if !ok {
				continue
			}
			team := &model.Team{
				ID:          propString(props, "id"),
				Name:        propString(props, "name"),
				Description: propString(props, "description"),
			}
			if team.CreatedAt, err = propTime(props, "createdAt"); err != nil {
				return nil, err
			}
			if team.UpdatedAt, err = propTime(props, "updatedAt"); err != nil {
				return nil, err
			}
			teams = append(teams, team)
		}
		return teams, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ta_errors.ErrDatabaseOperation, err)
	}
	return teams, nil
}

func teamParams(team model.Team) map[string]any {
	return map[string]any{
		"id":          team.ID,
		"name":        team.Name,
		"nameKey":     strings.ToLower(team.Name),
		"description": team.Description,
		"createdAt":   formatTime(team.CreatedAt),
		"updatedAt":   formatTime(team.UpdatedAt),
	}
}
