// api/seed/seed.go
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
)

// File is the bootstrap document: teams and roles first, then the users that reference
// them by name.
type File struct {
	Teams []Team `yaml:"teams"`
	Roles []Role `yaml:"roles"`
	Users []User `yaml:"users"`
}

type Team struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Role struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// AllPermissions grants every catalog key at global scope.
	AllPermissions bool    `yaml:"allPermissions"`
	Permissions    []Grant `yaml:"permissions"`
}

type Grant struct {
	Key   string      `yaml:"key"`
	Scope model.Scope `yaml:"scope"`
}

type User struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Team     string   `yaml:"team"`
	Roles    []string `yaml:"roles"`
}

// Result counts what Apply created and what already existed.
type Result struct {
	Created int
	Skipped int
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

type Seeder struct {
	roles service.IRoleService
	teams service.ITeamService
	users service.IUserService
}

func NewSeeder(services *service.Services) *Seeder {
	return &Seeder{roles: services.Role, teams: services.Team, users: services.User}
}

// Apply creates whatever the file declares that does not exist yet. Entities are matched
// by name (email for users) and existing ones are left untouched, so running it twice is
// harmless. Writes go through the services as the system actor and are audited.
func (s *Seeder) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result

	teams, err := s.teamIDs(ctx)
	if err != nil {
		return res, err
	}
	for _, t := range f.Teams {
		key := strings.ToLower(strings.TrimSpace(t.Name))
		if _, ok := teams[key]; ok {
			res.Skipped++
			continue
		}
		team, err := s.teams.CreateTeam(ctx, model.SystemActor, model.TeamInput{Name: t.Name, Description: t.Description})
		if err != nil {
			return res, fmt.Errorf("failed to seed team %q: %w", t.Name, err)
		}
		teams[key] = team.ID
		res.Created++
	}

	roles, err := s.roleIDs(ctx)
	if err != nil {
		return res, err
	}
	for _, r := range f.Roles {
		key := service.NormalizeRoleName(r.Name)
		if _, ok := roles[key]; ok {
			res.Skipped++
			continue
		}
		role, err := s.roles.CreateRole(ctx, model.SystemActor, model.RoleInput{
			Name:        r.Name,
			Description: r.Description,
			Permissions: r.grants(),
		})
		if err != nil {
			return res, fmt.Errorf("failed to seed role %q: %w", r.Name, err)
		}
		roles[key] = role.ID
		res.Created++
	}

	for _, u := range f.Users {
		input := model.UserInput{Name: u.Name, Email: u.Email, Password: u.Password}
		if u.Team != "" {
			id, ok := teams[strings.ToLower(strings.TrimSpace(u.Team))]
			if !ok {
				return res, fmt.Errorf("seed user %q: %w", u.Email, ta_errors.ErrTeamNotFound)
			}
			input.TeamID = &id
		}
		for _, name := range u.Roles {
			id, ok := roles[service.NormalizeRoleName(name)]
			if !ok {
				return res, fmt.Errorf("seed user %q: role %q: %w", u.Email, name, ta_errors.ErrRoleNotFound)
			}
			input.Roles = append(input.Roles, model.AssignmentInput{RoleID: id})
		}

		_, err := s.users.CreateUser(ctx, model.SystemActor, input)
		switch {
		case errors.Is(err, ta_errors.ErrDuplicateName):
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("failed to seed user %q: %w", u.Email, err)
		default:
			res.Created++
		}
	}

	logger.Info("Seed applied", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
	return res, nil
}

func (r Role) grants() []model.GrantInput {
	if r.AllPermissions {
		keys := catalog.Keys()
		grants := make([]model.GrantInput, 0, len(keys))
		for _, k := range keys {
			grants = append(grants, model.GrantInput{Key: k, Scope: model.ScopeGlobal})
		}
		return grants
	}
	grants := make([]model.GrantInput, 0, len(r.Permissions))
	for _, g := range r.Permissions {
		grants = append(grants, model.GrantInput{Key: g.Key, Scope: g.Scope})
	}
	return grants
}

func (s *Seeder) teamIDs(ctx context.Context) (map[string]string, error) {
	teams, err := s.teams.ListTeams(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(teams))
	for _, t := range teams {
		ids[strings.ToLower(t.Name)] = t.ID
	}
	return ids, nil
}

func (s *Seeder) roleIDs(ctx context.Context) (map[string]string, error) {
	roles, err := s.roles.ListRoles(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(roles))
	for _, r := range roles {
		ids[r.Name] = r.ID
	}
	return ids, nil
}
