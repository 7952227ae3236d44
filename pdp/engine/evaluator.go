package engine

import (
	"sort"
	"time"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	pdp_model "github.com/dev-mohitbeniwal/teamaccess/api/pdp/model"
)

// RoleLookup resolves the roles referenced by a user's assignments.
type RoleLookup interface {
	LookupRole(roleID string) (model.Role, bool)
}

// RoleSnapshot is a RoleLookup over a fixed set of roles keyed by id.
type RoleSnapshot map[string]model.Role

func (s RoleSnapshot) LookupRole(roleID string) (model.Role, bool) {
	r, ok := s[roleID]
	return r, ok
}

func NewRoleSnapshot(roles ...model.Role) RoleSnapshot {
	s := make(RoleSnapshot, len(roles))
	for _, r := range roles {
		s[r.ID] = r
	}
	return s
}

// PermissionEvaluator decides permission checks against a user and role snapshot. It
// holds no state and never reads the clock.
type PermissionEvaluator struct{}

func NewPermissionEvaluator() *PermissionEvaluator {
	return &PermissionEvaluator{}
}

// Evaluate returns the access decision for permission on resource at asOf. A deny is a
// decision, not an error; the only error is a *ta_errors.DataIntegrityError for an
// effective assignment whose role cannot be resolved.
func (pe *PermissionEvaluator) Evaluate(user model.User, roles RoleLookup, permission string, resource pdp_model.ResourceContext, asOf time.Time) (*pdp_model.AccessDecision, error) {
	held, err := pe.collect(user, roles, asOf, func(key string) bool { return key == permission })
	if err != nil {
		return nil, err
	}

	decision := &pdp_model.AccessDecision{
		Effect:      pdp_model.EffectDeny,
		Permission:  permission,
		EvaluatedAt: asOf,
	}

	scopes := held[permission]
	if len(scopes) == 0 {
		decision.Reason = pdp_model.ReasonNoEffectiveGrant
		return decision, nil
	}

	var granted model.Scope
	switch {
	case scopes[model.ScopeGlobal] != nil:
		granted = model.ScopeGlobal
	case scopes[model.ScopeTeam] != nil && teamMatches(user, resource):
		granted = model.ScopeTeam
	case scopes[model.ScopeSelf] != nil && ownerMatches(user, resource):
		granted = model.ScopeSelf
	}

	if granted == "" {
		decision.Reason = pdp_model.ReasonScopeMismatch
		decision.MatchedRoles = allRoles(scopes)
		return decision, nil
	}

	decision.Effect = pdp_model.EffectAllow
	decision.Scope = granted
	decision.MatchedRoles = scopes[granted]
	return decision, nil
}

// EffectivePermissions lists every key the user holds at asOf with its broadest scope,
// sorted by key.
func (pe *PermissionEvaluator) EffectivePermissions(user model.User, roles RoleLookup, asOf time.Time) ([]pdp_model.EffectivePermission, error) {
	held, err := pe.collect(user, roles, asOf, func(string) bool { return true })
	if err != nil {
		return nil, err
	}

	out := make([]pdp_model.EffectivePermission, 0, len(held))
	for key, scopes := range held {
		for _, s := range model.Scopes {
			if names := scopes[s]; names != nil {
				out = append(out, pdp_model.EffectivePermission{Key: key, Scope: s, Roles: names})
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// collect maps key -> scope -> names of contributing roles for every effective grant whose
// key passes want.
func (pe *PermissionEvaluator) collect(user model.User, roles RoleLookup, asOf time.Time, want func(string) bool) (map[string]map[model.Scope][]string, error) {
	held := make(map[string]map[model.Scope][]string)
	if !user.IsActive {
		return held, nil
	}

	seen := make(map[string]bool)
	for _, a := range user.Assignments {
		if !AssignmentEffective(a, asOf) {
			continue
		}
		role, ok := roles.LookupRole(a.Role.ID)
		if !ok {
			return nil, &ta_errors.DataIntegrityError{UserID: user.ID, RoleID: a.Role.ID}
		}
		if seen[role.ID] || !RoleEffective(role, asOf) {
			continue
		}
		seen[role.ID] = true

		for _, g := range role.Permissions {
			if !want(g.Key) || !GrantEffective(g, asOf) || !g.Scope.IsValid() {
				continue
			}
			byScope, ok := held[g.Key]
			if !ok {
				byScope = make(map[model.Scope][]string)
				held[g.Key] = byScope
			}
			byScope[g.Scope] = appendUnique(byScope[g.Scope], role.Name)
		}
	}
	return held, nil
}

func teamMatches(user model.User, resource pdp_model.ResourceContext) bool {
	return resource.TeamID != nil && user.Team != nil && *resource.TeamID == user.Team.ID
}

func ownerMatches(user model.User, resource pdp_model.ResourceContext) bool {
	return resource.OwnerID != nil && *resource.OwnerID == user.ID
}

func allRoles(scopes map[model.Scope][]string) []string {
	var out []string
	for _, s := range model.Scopes {
		for _, name := range scopes[s] {
			out = appendUnique(out, name)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
