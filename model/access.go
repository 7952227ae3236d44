// api/model/access.go
package model

import "time"

// Scope qualifies how far a granted permission reaches.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeTeam   Scope = "team"
	ScopeSelf   Scope = "self"
)

// Scopes lists the valid scopes from broadest to narrowest.
var Scopes = []Scope{ScopeGlobal, ScopeTeam, ScopeSelf}

func (s Scope) IsValid() bool {
	switch s {
	case ScopeGlobal, ScopeTeam, ScopeSelf:
		return true
	}
	return false
}

// Rank orders scopes by breadth; higher is broader. Unknown scopes rank 0.
func (s Scope) Rank() int {
	switch s {
	case ScopeGlobal:
		return 3
	case ScopeTeam:
		return 2
	case ScopeSelf:
		return 1
	}
	return 0
}

type PermissionGrant struct {
	Key       string     `json:"key"`
	Scope     Scope      `json:"scope"`
	Active    bool       `json:"isActive"`
	Revoked   bool       `json:"revoked"`
	ValidFrom *time.Time `json:"validFrom"`
	ValidTill *time.Time `json:"validTill"`
}

type Role struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	IsActive    bool              `json:"isActive"`
	ValidFrom   *time.Time        `json:"validFrom"`
	ValidTill   *time.Time        `json:"validTill"`
	Permissions []PermissionGrant `json:"permissions"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// RoleRef is the short form of a role embedded in user assignments.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Grant returns the grant for key, if the role has one.
func (r Role) Grant(key string) (PermissionGrant, bool) {
	for _, g := range r.Permissions {
		if g.Key == key {
			return g, true
		}
	}
	return PermissionGrant{}, false
}

func (r Role) Ref() RoleRef {
	return RoleRef{ID: r.ID, Name: r.Name}
}

// Clone returns a copy that shares no memory with r.
func (r Role) Clone() Role {
	out := r
	out.ValidFrom = CloneTime(r.ValidFrom)
	out.ValidTill = CloneTime(r.ValidTill)
	if r.Permissions != nil {
		out.Permissions = make([]PermissionGrant, len(r.Permissions))
		for i, g := range r.Permissions {
			g.ValidFrom = CloneTime(g.ValidFrom)
			g.ValidTill = CloneTime(g.ValidTill)
			out.Permissions[i] = g
		}
	}
	return out
}

// GrantSpec is the desired state of one grant in a SetRolePermission call. A missing
// scope means global.
type GrantSpec struct {
	Scope     Scope      `json:"scope"`
	ValidFrom *time.Time `json:"validFrom"`
	ValidTill *time.Time `json:"validTill"`
}

// GrantInput is a grant as submitted by a client. A missing scope means global and a
// missing isActive means active.
type GrantInput struct {
	Key       string     `json:"key" binding:"required"`
	Scope     Scope      `json:"scope"`
	IsActive  *bool      `json:"isActive"`
	ValidFrom *time.Time `json:"validFrom"`
	ValidTill *time.Time `json:"validTill"`
}

func (in GrantInput) ToGrant() PermissionGrant {
	g := PermissionGrant{
		Key:       in.Key,
		Scope:     in.Scope,
		Active:    true,
		ValidFrom: CloneTime(in.ValidFrom),
		ValidTill: CloneTime(in.ValidTill),
	}
	if g.Scope == "" {
		g.Scope = ScopeGlobal
	}
	if in.IsActive != nil {
		g.Active = *in.IsActive
	}
	return g
}

// RoleInput carries the fields accepted when creating a role.
type RoleInput struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	ValidFrom   *time.Time   `json:"validFrom"`
	ValidTill   *time.Time   `json:"validTill"`
	Permissions []GrantInput `json:"permissions"`
}

// RolePatch carries optional role fields; nil means unchanged. Permissions, when set,
// replace the role's whole grant list.
type RolePatch struct {
	Name           *string       `json:"name"`
	Description    *string       `json:"description"`
	IsActive       *bool         `json:"isActive"`
	ValidFrom      *time.Time    `json:"validFrom"`
	ValidTill      *time.Time    `json:"validTill"`
	ClearValidFrom bool          `json:"clearValidFrom"`
	ClearValidTill bool          `json:"clearValidTill"`
	Permissions    *[]GrantInput `json:"permissions"`
}

// CloneTime copies t so the result shares no memory with the caller.
func CloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
