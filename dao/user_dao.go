// api/dao/user_dao.go
package dao

import (
	"context"
	"fmt"
	"sort"
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

// UserDAO stores users as nodes, team membership as MEMBER_OF and role assignments as
// HAS_ROLE relationships carrying the assignment fields.
type UserDAO struct {
	Driver neo4j.DriverWithContext
}

var _ UserStore = (*UserDAO)(nil)

const userReturn = `
	RETURN u {.*} AS user,
		head([(u)-[:` + ta_neo4j.RelMemberOf + `]->(t:` + ta_neo4j.LabelTeam + `) | t {.id, .name}]) AS team,
		[(u)-[h:` + ta_neo4j.RelHasRole + `]->(r:` + ta_neo4j.LabelRole + `) | {
			roleId: r.id,
			roleName: r.name,
			revoked: h.revoked,
			validFrom: h.validFrom,
			validTill: h.validTill,
			position: h.position
		}] AS assignments
`

func NewUserDAO(driver neo4j.DriverWithContext) *UserDAO {
	dao := &UserDAO{Driver: driver}
	if err := dao.EnsureUniqueConstraint(context.Background()); err != nil {
		logger.Fatal("Failed to ensure unique constraint for User", zap.Error(err))
	}
	return dao
}

func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	return ensureConstraints(ctx, dao.Driver, ta_neo4j.LabelUser,
		`CREATE CONSTRAINT unique_user_id IF NOT EXISTS FOR (u:`+ta_neo4j.LabelUser+`) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_user_email IF NOT EXISTS FOR (u:`+ta_neo4j.LabelUser+`) REQUIRE u.email IS UNIQUE`,
	)
}

func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) error {
	start := time.Now()
	logger.Info("Creating new user", zap.String("email", user.Email))

	_, err := db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			CREATE (u:` + ta_neo4j.LabelUser + ` {
				id: $id,
				name: $name,
				email: $email,
				isActive: $isActive,
				passwordHash: $passwordHash,
				createdAt: $createdAt,
				updatedAt: $updatedAt
			})
		`
		result, err := tx.Run(ctx, query, userParams(user))
		if err != nil {
			return nil, err
		}
		if _, err := result.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, writeUserRelations(ctx, tx, user)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}

	logger.Info("User created successfully",
		zap.String("userID", user.ID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *UserDAO) UpdateUser(ctx context.Context, user model.User) error {
	start := time.Now()
	logger.Info("Updating user", zap.String("userID", user.ID))

	_, err := db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (u:` + ta_neo4j.LabelUser + ` {id: $id})
			SET u.name = $name,
				u.email = $email,
				u.isActive = $isActive,
				u.passwordHash = $passwordHash,
				u.updatedAt = $updatedAt
			WITH u
			OPTIONAL MATCH (u)-[m:` + ta_neo4j.RelMemberOf + `]->()
			DELETE m
			WITH DISTINCT u
			OPTIONAL MATCH (u)-[h:` + ta_neo4j.RelHasRole + `]->()
			DELETE h
			RETURN DISTINCT u.id AS id
		`
		result, err := tx.Run(ctx, query, userParams(user))
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ta_errors.ErrUserNotFound
		}
		return nil, writeUserRelations(ctx, tx, user)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update user",
			zap.Error(err),
			zap.String("userID", user.ID),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}

	logger.Info("User updated successfully",
		zap.String("userID", user.ID),
		zap.Duration("duration", duration))
	return nil
}

// writeUserRelations links a freshly written user node to its team and roles. A missing
// target fails the transaction.
func writeUserRelations(ctx context.Context, tx neo4j.ManagedTransaction, user model.User) error {
	if teamID := user.TeamID(); teamID != "" {
		query := `
			MATCH (u:` + ta_neo4j.LabelUser + ` {id: $id}), (t:` + ta_neo4j.LabelTeam + ` {id: $teamId})
			CREATE (u)-[:` + ta_neo4j.RelMemberOf + `]->(t)
			RETURN t.id AS id
		`
		result, err := tx.Run(ctx, query, map[string]any{"id": user.ID, "teamId": teamID})
		if err != nil {
			return err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return ta_errors.ErrTeamNotFound
		}
	}

	if len(user.Assignments) == 0 {
		return nil
	}

	assignments := make([]map[string]any, len(user.Assignments))
	for i, a := range user.Assignments {
		assignments[i] = map[string]any{
			"roleId":    a.Role.ID,
			"revoked":   a.Revoked,
			"validFrom": optionalTime(a.ValidFrom),
			"validTill": optionalTime(a.ValidTill),
			"position":  int64(i),
		}
	}

	query := `
		MATCH (u:` + ta_neo4j.LabelUser + ` {id: $id})
		UNWIND $assignments AS a
		MATCH (r:` + ta_neo4j.LabelRole + ` {id: a.roleId})
		CREATE (u)-[:` + ta_neo4j.RelHasRole + ` {
			revoked: a.revoked,
			validFrom: a.validFrom,
			validTill: a.validTill,
			position: a.position
		}]->(r)
		RETURN count(*) AS linked
	`
	result, err := tx.Run(ctx, query, map[string]any{"id": user.ID, "assignments": assignments})
	if err != nil {
		return err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return err
	}
	if linked, _ := record.Get("linked"); linked.(int64) != int64(len(assignments)) {
		return ta_errors.ErrRoleNotFound
	}
	return nil
}

func (dao *UserDAO) DeleteUser(ctx context.Context, userID string) error {
	start := time.Now()
	logger.Info("Deleting user", zap.String("userID", userID))

	deleted, err := db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (int, error) {
		result, err := tx.Run(ctx,
			`MATCH (u:`+ta_neo4j.LabelUser+` {id: $id}) DETACH DELETE u`,
			map[string]any{"id": userID})
		if err != nil {
			return 0, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return 0, err
		}
		return summary.Counters().NodesDeleted(), nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete user",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}
	if deleted == 0 {
		return ta_errors.ErrUserNotFound
	}

	logger.Info("User deleted successfully",
		zap.String("userID", userID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	users, err := dao.queryUsers(ctx,
		`MATCH (u:`+ta_neo4j.LabelUser+` {id: $id})`+userReturn,
		map[string]any{"id": userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ta_errors.ErrUserNotFound
	}
	return &users[0], nil
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := dao.queryUsers(ctx,
		`MATCH (u:`+ta_neo4j.LabelUser+` {email: $email})`+userReturn,
		map[string]any{"email": strings.ToLower(email)})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ta_errors.ErrUserNotFound
	}
	return &users[0], nil
}

func (dao *UserDAO) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	users, err := dao.queryUsers(ctx,
		`MATCH (u:`+ta_neo4j.LabelUser+`) WITH u ORDER BY u.email SKIP $offset LIMIT $limit`+userReturn,
		pageParams(limit, offset))
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, err
	}
	out := make([]*model.User, len(users))
	for i := range users {
		out[i] = &users[i]
	}
	return out, nil
}

func (dao *UserDAO) CountTeamMembers(ctx context.Context, teamID string) (int, error) {
	n, err := db.ExecuteRead(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (int64, error) {
		query := `
			MATCH (u:` + ta_neo4j.LabelUser + `)-[:` + ta_neo4j.RelMemberOf + `]->(:` + ta_neo4j.LabelTeam + ` {id: $id})
			RETURN count(u) AS members
		`
		result, err := tx.Run(ctx, query, map[string]any{"id": teamID})
		if err != nil {
			return 0, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return 0, err
		}
		v, _ := record.Get("members")
		return v.(int64), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ta_errors.ErrDatabaseOperation, err)
	}
	return int(n), nil
}

func (dao *UserDAO) queryUsers(ctx context.Context, query string, params map[string]any) ([]model.User, error) {
	users, err := db.ExecuteRead(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) ([]model.User, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		users := make([]model.User, 0, len(records))
		for _, record := range records {
			user, err := mapRecordToUser(record)
			if err != nil {
				return nil, err
			}
			users = append(users, user)
		}
		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ta_errors.ErrDatabaseOperation, err)
	}
	return users, nil
}

func userParams(user model.User) map[string]any {
	return map[string]any{
		"id":           user.ID,
		"name":         user.Name,
		"email":        strings.ToLower(user.Email),
		"isActive":     user.IsActive,
		"passwordHash": user.PasswordHash,
		"createdAt":    formatTime(user.CreatedAt),
		"updatedAt":    formatTime(user.UpdatedAt),
	}
}

func mapRecordToUser(record *neo4j.Record) (model.User, error) {
	props, ok := recordMap(record, "user")
	if !ok {
		return model.User{}, fmt.Errorf("record has no user")
	}

	user := model.User{
		ID:           propString(props, "id"),
		Name:         propString(props, "name"),
		Email:        propString(props, "email"),
		IsActive:     propBool(props, "isActive"),
		PasswordHash: propString(props, "passwordHash"),
		Assignments:  []model.RoleAssignment{},
	}

	var err error
	if user.CreatedAt, err = propTime(props, "createdAt"); err != nil {
		return user, err
	}
	if user.UpdatedAt, err = propTime(props, "updatedAt"); err != nil {
		return user, err
	}

	if team, ok := recordMap(record, "team"); ok {
		user.Team = &model.TeamRef{ID: propString(team, "id"), Name: propString(team, "name")}
	}

	raw, _ := record.Get("assignments")
	list, _ := raw.([]any)
	positions := make([]int64, 0, len(list))
	for _, item := range list {
		a, ok := item.(map[string]any)
		if !ok {
			continue
		}
		assignment := model.RoleAssignment{
			Role:    model.RoleRef{ID: propString(a, "roleId"), Name: propString(a, "roleName")},
			Revoked: propBool(a, "revoked"),
		}
		if assignment.ValidFrom, err = propOptionalTime(a, "validFrom"); err != nil {
			return user, err
		}
		if assignment.ValidTill, err = propOptionalTime(a, "validTill"); err != nil {
			return user, err
		}
		user.Assignments = append(user.Assignments, assignment)
		positions = append(positions, propInt(a, "position"))
	}

	sort.Sort(byPosition{user.Assignments, positions})
	return user, nil
}

type byPosition struct {
	assignments []model.RoleAssignment
	positions   []int64
}

func (b byPosition) Len() int           { return len(b.assignments) }
func (b byPosition) Less(i, j int) bool { return b.positions[i] < b.positions[j] }
func (b byPosition) Swap(i, j int) {
	b.assignments[i], b.assignments[j] = b.assignments[j], b.assignments[i]
	b.positions[i], b.positions[j] = b.positions[j], b.positions[i]
}
