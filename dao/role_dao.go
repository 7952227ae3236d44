// api/dao/role_dao.go
package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/db"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	ta_neo4j "github.com/dev-mohitbeniwal/teamaccess/api/model/neo4j"
)

// RoleDAO stores roles as nodes. Grants live in a JSON property so a role and its grants
// are always written together.
type RoleDAO struct {
	Driver neo4j.DriverWithContext
}

var _ RoleStore = (*RoleDAO)(nil)

func NewRoleDAO(driver neo4j.DriverWithContext) *RoleDAO {
	dao := &RoleDAO{Driver: driver}
	if err := dao.EnsureUniqueConstraint(context.Background()); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Role", zap.Error(err))
	}
	return dao
}

func (dao *RoleDAO) EnsureUniqueConstraint(ctx context.Context) error {
	return ensureConstraints(ctx, dao.Driver, ta_neo4j.LabelRole,
		`CREATE CONSTRAINT unique_role_id IF NOT EXISTS FOR (r:`+ta_neo4j.LabelRole+`) REQUIRE r.id IS UNIQUE`,
		`CREATE CONSTRAINT unique_role_name IF NOT EXISTS FOR (r:`+ta_neo4j.LabelRole+`) REQUIRE r.name IS UNIQUE`,
	)
}

func (dao *RoleDAO) CreateRole(ctx context.Context, role model.Role) error {
	start := time.Now()
	logger.Info("Creating new role", zap.String("roleName", role.Name))

	params, err := roleParams(role)
	if err != nil {
		return err
	}

	_, err = db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			CREATE (r:` + ta_neo4j.LabelRole + ` {
				id: $id,
				name: $name,
				description: $description,
				isActive: $isActive,
				validFrom: $validFrom,
				validTill: $validTill,
				permissions: $permissions,
				createdAt: $createdAt,
				updatedAt: $updatedAt
			})
		`
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create role",
			zap.Error(err),
			zap.String("roleName", role.Name),
			zap.Duration("duration", duration))
		if isConstraintViolation(err) {
			return ta_errors.ErrDuplicateName
		}
		return fmt.Errorf("%w: %v", ta_errors.ErrDatabaseOperation, err)
	}

	logger.Info("Role created successfully",
		zap.String("roleID", role.ID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *RoleDAO) UpdateRole(ctx context.Context, role model.Role) error {
	start := time.Now()
	logger.Info("Updating role", zap.String("roleID", role.ID))

	params, err := roleParams(role)
	if err != nil {
		return err
	}

	_, err = db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (r:` + ta_neo4j.LabelRole + ` {id: $id})
			SET r.name = $name,
				r.description = $description,
				r.isActive = $isActive,
				r.validFrom = $validFrom,
				r.validTill = $validTill,
				r.permissions = $permissions,
				r.updatedAt = $updatedAt
			RETURN r.id AS id
		`
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ta_errors.ErrRoleNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update role",
			zap.Error(err),
			zap.String("roleID", role.ID),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}

	logger.Info("Role updated successfully",
		zap.String("roleID", role.ID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *RoleDAO) DeleteRole(ctx context.Context, roleID string) error {
	start := time.Now()
	logger.Info("Deleting role", zap.String("roleID", roleID))

	_, err := db.ExecuteWrite(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (any, error) {
		// Writing to the node first takes its lock, so no HAS_ROLE can be added to it
		// between the count and the delete.
		query := `
			MATCH (r:` + ta_neo4j.LabelRole + ` {id: $id})
			SET r.deletedAt = $now
			WITH r
			OPTIONAL MATCH (:` + ta_neo4j.LabelUser + `)-[h:` + ta_neo4j.RelHasRole + `]->(r)
			WHERE coalesce(h.revoked, false) = false
			RETURN count(h) AS holders
		`
		result, err := tx.Run(ctx, query, map[string]any{"id": roleID, "now": formatTime(time.Now())})
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ta_errors.ErrRoleNotFound
		}
		if holders, _ := records[0].Get("holders"); holders.(int64) > 0 {
			return nil, ta_errors.ErrRoleInUse
		}

		result, err = tx.Run(ctx, `MATCH (r:`+ta_neo4j.LabelRole+` {id: $id}) DETACH DELETE r`, map[string]any{"id": roleID})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete role",
			zap.Error(err),
			zap.String("roleID", roleID),
			zap.Duration("duration", duration))
		return mapWriteError(err)
	}

	logger.Info("Role deleted successfully",
		zap.String("roleID", roleID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *RoleDAO) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	roles, err := dao.queryRoles(ctx,
		`MATCH (r:`+ta_neo4j.LabelRole+` {id: $id}) RETURN r {.*} AS role`,
		map[string]any{"id": roleID})
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, ta_errors.ErrRoleNotFound
	}
	return &roles[0], nil
}

func (dao *RoleDAO) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	roles, err := dao.queryRoles(ctx,
		`MATCH (r:`+ta_neo4j.LabelRole+` {name: $name}) RETURN r {.*} AS role`,
		map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, ta_errors.ErrRoleNotFound
	}
	return &roles[0], nil
}

func (dao *RoleDAO) ListRoles(ctx context.Context, limit, offset int) ([]*model.Role, error) {
	roles, err := dao.queryRoles(ctx,
		`MATCH (r:`+ta_neo4j.LabelRole+`) RETURN r {.*} AS role ORDER BY r.name SKIP $offset LIMIT $limit`,
		pageParams(limit, offset))
	if err != nil {
		logger.Error("Failed to list roles", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, err
	}
	out := make([]*model.Role, len(roles))
	for i := range roles {
		out[i] = &roles[i]
	}
	return out, nil
}

func (dao *RoleDAO) GetRolesByIDs(ctx context.Context, ids []string) ([]model.Role, error) {
	if len(ids) == 0 {
		return []model.Role{}, nil
	}
	return dao.queryRoles(ctx,
		`MATCH (r:`+ta_neo4j.LabelRole+`) WHERE r.id IN $ids RETURN r {.*} AS role`,
		map[string]any{"ids": ids})
}

func (dao *RoleDAO) CountRoleHolders(ctx context.Context, roleID string) (int, error) {
	n, err := db.ExecuteRead(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) (int64, error) {
		query := `
			MATCH (:` + ta_neo4j.LabelUser + `)-[h:` + ta_neo4j.RelHasRole + `]->(:` + ta_neo4j.LabelRole + ` {id: $id})
			WHERE coalesce(h.revoked, false) = false
			RETURN count(h) AS holders
		`
		result, err := tx.Run(ctx, query, map[string]any{"id": roleID})
		if err != nil {
			return 0, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return 0, err
		}
		v, _ := record.Get("holders")
		return v.(int64), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ta_errors.ErrDatabaseOperation, err)
	}
	return int(n), nil
}

func (dao *RoleDAO) queryRoles(ctx context.Context, query string, params map[string]any) ([]model.Role, error) {
	roles, err := db.ExecuteRead(ctx, dao.Driver, func(tx neo4j.ManagedTransaction) ([]model.Role, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		roles := make([]model.Role, 0, len(records))
		for _, record := range records {
			props, ok := recordMap(record, "role")
			if !ok {
				continue
			}
			role, err := mapPropsToRole(props)
			if err != nil {
				return nil, err
			}
			roles = append(roles, role)
		}
		return roles, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ta_errors.ErrDatabaseOperation, err)
	}
	return roles, nil
}

func roleParams(role model.Role) (map[string]any, error) {
	grants := role.Permissions
	if grants == nil {
		grants = []model.PermissionGrant{}
	}
	permissions, err := json.Marshal(grants)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal permissions: %w", err)
	}
	return map[string]any{
		"id":          role.ID,
		"name":        role.Name,
		"description": role.Description,
		"isActive":    role.IsActive,
		"validFrom":   optionalTime(role.ValidFrom),
		"validTill":   optionalTime(role.ValidTill),
		"permissions": string(permissions),
		"createdAt":   formatTime(role.CreatedAt),
		"updatedAt":   formatTime(role.UpdatedAt),
	}, nil
}

func mapPropsToRole(props map[string]any) (model.Role, error) {
	role := model.Role{
		ID:          propString(props, "id"),
		Name:        propString(props, "name"),
		Description: propString(props, "description"),
		IsActive:    propBool(props, "isActive"),
	}

	var err error
	if role.ValidFrom, err = propOptionalTime(props, "validFrom"); err != nil {
		return role, err
	}
	if role.ValidTill, err = propOptionalTime(props, "validTill"); err != nil {
		return role, err
	}
	if role.CreatedAt, err = propTime(props, "createdAt"); err != nil {
		return role, err
	}
	if role.UpdatedAt, err = propTime(props, "updatedAt"); err != nil {
		return role, err
	}

	role.Permissions = []model.PermissionGrant{}
	if raw := propString(props, "permissions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &role.Permissions); err != nil {
			return role, fmt.Errorf("failed to unmarshal permissions of role %s: %w", role.ID, err)
		}
	}
	return role, nil
}

// mapWriteError keeps domain sentinels and folds driver failures into ErrDatabaseOperation.
func mapWriteError(err error) error {
	switch {
	case isConstraintViolation(err):
		return ta_errors.ErrDuplicateName
	case errors.Is(err, ta_errors.ErrRoleNotFound),
		errors.Is(err, ta_errors.ErrRoleInUse),
		errors.Is(err, ta_errors.ErrUserNotFound),
		errors.Is(err, ta_errors.ErrTeamNotFound),
		errors.Is(err, ta_errors.ErrTeamInUse):
		return err
	}
	return fmt.Errorf("%w: %v", ta_errors.ErrDatabaseOperation, err)
}
