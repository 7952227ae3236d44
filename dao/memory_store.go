// api/dao/memory_store.go
package dao

import (
	"context"
	"sort"
	"strings"
	"sync"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

// MemoryStore keeps every entity in process. Values are copied on the way in and out, so
// a caller never observes a write in progress.
type MemoryStore struct {
	mu    sync.RWMutex
	roles map[string]model.Role
	users map[string]model.User
	teams map[string]model.Team
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		roles: make(map[string]model.Role),
		users: make(map[string]model.User),
		teams: make(map[string]model.Team),
	}
}

// Roles

func (s *MemoryStore) CreateRole(ctx context.Context, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[role.ID]; ok {
		return ta_errors.ErrDuplicateName
	}
	if s.roleNameTaken(role.Name, role.ID) {
		return ta_errors.ErrDuplicateName
	}
	s.roles[role.ID] = role.Clone()
	return nil
}

func (s *MemoryStore) UpdateRole(ctx context.Context, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[role.ID]; !ok {
		return ta_errors.ErrRoleNotFound
	}
	if s.roleNameTaken(role.Name, role.ID) {
		return ta_errors.ErrDuplicateName
	}
	s.roles[role.ID] = role.Clone()
	return nil
}

func (s *MemoryStore) DeleteRole(ctx context.Context, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[roleID]; !ok {
		return ta_errors.ErrRoleNotFound
	}
	for _, u := range s.users {
		if u.HoldsRole(roleID) {
			return ta_errors.ErrRoleInUse
		}
	}
	delete(s.roles, roleID)

	for id, u := range s.users {
		kept := u.Assignments[:0:0]
		for _, a := range u.Assignments {
			if a.Role.ID != roleID {
				kept = append(kept, a)
			}
		}
		if len(kept) != len(u.Assignments) {
			u = u.Clone()
			u.Assignments = kept
			s.users[id] = u
		}
	}
	return nil
}

func (s *MemoryStore) GetRole(ctx context.Context, roleID string) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleID]
	if !ok {
		return nil, ta_errors.ErrRoleNotFound
	}
	out := r.Clone()
	return &out, nil
}

func (s *MemoryStore) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if strings.EqualFold(r.Name, name) {
			out := r.Clone()
			return &out, nil
		}
	}
	return nil, ta_errors.ErrRoleNotFound
}

func (s *MemoryStore) ListRoles(ctx context.Context, limit, offset int) ([]*model.Role, error) {
	s.mu.RLock()
	roles := make([]*model.Role, 0, len(s.roles))
	for _, r := range s.roles {
		c := r.Clone()
		roles = append(roles, &c)
	}
	s.mu.RUnlock()

	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return page(roles, limit, offset), nil
}

func (s *MemoryStore) GetRolesByIDs(ctx context.Context, ids []string) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Role, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.roles[id]; ok {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) CountRoleHolders(ctx context.Context, roleID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.HoldsRole(roleID) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) roleNameTaken(name, exceptID string) bool {
	for id, r := range s.roles {
		if id != exceptID && strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok || s.emailTaken(user.Email, user.ID) {
		return ta_errors.ErrDuplicateName
	}
	if err := s.checkUserRefs(user); err != nil {
		return err
	}
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ta_errors.ErrUserNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return ta_errors.ErrDuplicateName
	}
	if err := s.checkUserRefs(user); err != nil {
		return err
	}
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return ta_errors.ErrUserNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ta_errors.ErrUserNotFound
	}
	out := s.resolveUser(u)
	return &out, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := s.resolveUser(u)
			return &out, nil
		}
	}
	return nil, ta_errors.ErrUserNotFound
}

func (s *MemoryStore) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	s.mu.RLock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		c := s.resolveUser(u)
		users = append(users, &c)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return page(users, limit, offset), nil
}

func (s *MemoryStore) CountTeamMembers(ctx context.Context, teamID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.TeamID() == teamID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) emailTaken(email, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// checkUserRefs rejects writes that would point a user at a missing team, or give them a
// live assignment of a missing role.
func (s *MemoryStore) checkUserRefs(u model.User) error {
	if id := u.TeamID(); id != "" {
		if _, ok := s.teams[id]; !ok {
			return ta_errors.ErrTeamNotFound
		}
	}
	for _, a := range u.Assignments {
		if a.Revoked {
			continue
		}
		if _, ok := s.roles[a.Role.ID]; !ok {
			return ta_errors.ErrRoleNotFound
		}
	}
	return nil
}

// resolveUser copies u and refreshes the names it carries for its team and roles.
func (s *MemoryStore) resolveUser(u model.User) model.User {
	out := u.Clone()
	if out.Team != nil {
		if t, ok := s.teams[out.Team.ID]; ok {
			out.Team.Name = t.Name
		}
	}
	for i, a := range out.Assignments {
		if r, ok := s.roles[a.Role.ID]; ok {
			out.Assignments[i].Role.Name = r.Name
		}
	}
	return out
}

// Teams

func (s *MemoryStore) CreateTeam(ctx context.Context, team model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[team.ID]; ok || s.teamNameTaken(team.Name, team.ID) {
		return ta_errors.ErrDuplicateName
	}
	s.teams[team.ID] = team
	return nil
}

func (s *MemoryStore) UpdateTeam(ctx context.Context, team model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[team.ID]; !ok {
		return ta_errors.ErrTeamNotFound
	}
	if s.teamNameTaken(team.Name, team.ID) {
		return ta_errors.ErrDuplicateName
	}
	s.teams[team.ID] = team
	return nil
}

// DeleteTeam refuses while any user still references the team, so a concurrent store
// write cannot leave a dangling membership.
func (s *MemoryStore) DeleteTeam(ctx context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[teamID]; !ok {
		return ta_errors.ErrTeamNotFound
	}
	for _, u := range s.users {
		if u.TeamID() == teamID {
			return ta_errors.ErrTeamInUse
		}
	}
	delete(s.teams, teamID)
	return nil
}

func (s *MemoryStore) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[teamID]
	if !ok {
		return nil, ta_errors.ErrTeamNotFound
	}
	return &t, nil
}

func (s *MemoryStore) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teams {
		if strings.EqualFold(t.Name, name) {
			out := t
			return &out, nil
		}
	}
	return nil, ta_errors.ErrTeamNotFound
}

func (s *MemoryStore) ListTeams(ctx context.Context, limit, offset int) ([]*model.Team, error) {
	s.mu.RLock()
	teams := make([]*model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		c := t
		teams = append(teams, &c)
	}
	s.mu.RUnlock()

	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return page(teams, limit, offset), nil
}

func (s *MemoryStore) teamNameTaken(name, exceptID string) bool {
	for id, t := range s.teams {
		if id != exceptID && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// page applies limit/offset; a non-positive limit returns everything after offset.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
