// api/dao/store.go
package dao

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

// RoleStore persists roles. Every write replaces the whole role, grants included.
type RoleStore interface {
	CreateRole(ctx context.Context, role model.Role) error
	UpdateRole(ctx context.Context, role model.Role) error
	// DeleteRole removes the role and any revoked assignments still pointing at it. It
	// fails with ErrRoleInUse while a non-revoked assignment exists.
	DeleteRole(ctx context.Context, roleID string) error
	GetRole(ctx context.Context, roleID string) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context, limit, offset int) ([]*model.Role, error)
	// GetRolesByIDs returns the roles that exist among ids; missing ids are skipped.
	GetRolesByIDs(ctx context.Context, ids []string) ([]model.Role, error)
	// CountRoleHolders counts users with a non-revoked assignment of the role.
	CountRoleHolders(ctx context.Context, roleID string) (int, error)
}

// UserStore persists users. Every write replaces the whole user, assignments and team
// membership included.
type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	UpdateUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error)
	CountTeamMembers(ctx context.Context, teamID string) (int, error)
}

type TeamStore interface {
	CreateTeam(ctx context.Context, team model.Team) error
	UpdateTeam(ctx context.Context, team model.Team) error
	// DeleteTeam fails with ErrTeamInUse while any user references the team.
	DeleteTeam(ctx context.Context, teamID string) error
	GetTeam(ctx context.Context, teamID string) (*model.Team, error)
	GetTeamByName(ctx context.Context, name string) (*model.Team, error)
	ListTeams(ctx context.Context, limit, offset int) ([]*model.Team, error)
}

// Store groups the three stores a deployment wires together.
type Store interface {
	RoleStore
	UserStore
	TeamStore
}

// Neo4jStore joins the Neo4j DAOs into one Store over a shared driver. The DAO
// constructors create the uniqueness constraints.
type Neo4jStore struct {
	*RoleDAO
	*UserDAO
	*TeamDAO
}

func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{
		RoleDAO: NewRoleDAO(driver),
		UserDAO: NewUserDAO(driver),
		TeamDAO: NewTeamDAO(driver),
	}
}

var _ Store = (*Neo4jStore)(nil)
