package model

import "time"

// RoleAssignment links a user to a role. Assignments have no active flag of their own.
type RoleAssignment struct {
	Role      RoleRef    `json:"role"`
	Revoked   bool       `json:"revoked"`
	ValidFrom *time.Time `json:"validFrom"`
	ValidTill *time.Time `json:"validTill"`
}

type User struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	IsActive     bool             `json:"isActive"`
	Team         *TeamRef         `json:"team"`
	Assignments  []RoleAssignment `json:"roles"`
	PasswordHash string           `json:"-"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// TeamID returns the id of the user's team, or "" when the user has none.
func (u User) TeamID() string {
	if u.Team == nil {
		return ""
	}
	return u.Team.ID
}

// HoldsRole reports whether the user has a non-revoked assignment of roleID.
func (u User) HoldsRole(roleID string) bool {
	for _, a := range u.Assignments {
		if a.Role.ID == roleID && !a.Revoked {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with u.
func (u User) Clone() User {
	out := u
	if u.Team != nil {
		t := *u.Team
		out.Team = &t
	}
	if u.Assignments != nil {
		out.Assignments = make([]RoleAssignment, len(u.Assignments))
		for i, a := range u.Assignments {
			a.ValidFrom = CloneTime(a.ValidFrom)
			a.ValidTill = CloneTime(a.ValidTill)
			out.Assignments[i] = a
		}
	}
	return out
}

// AssignmentInput is one role assignment as submitted by a client.
type AssignmentInput struct {
	RoleID    string     `json:"role" binding:"required"`
	ValidFrom *time.Time `json:"validFrom"`
	ValidTill *time.Time `json:"validTill"`
}

type UserInput struct {
	Name     string            `json:"name" binding:"required"`
	Email    string            `json:"email" binding:"required,email"`
	Password string            `json:"password" binding:"required,min=6"`
	TeamID   *string           `json:"teamId"`
	Roles    []AssignmentInput `json:"roles"`
}

// UserPatch carries optional user fields; nil means unchanged. ClearTeam removes the
// user from their team.
type UserPatch struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	IsActive  *bool   `json:"isActive"`
	TeamID    *string `json:"teamId"`
	ClearTeam bool    `json:"clearTeam"`
}

type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t Team) Ref() TeamRef {
	return TeamRef{ID: t.ID, Name: t.Name}
}

type TeamInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Actor identifies who performs a mutation. It is passed explicitly to every command.
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SystemActor is used for bootstrap writes that no user initiated.
var SystemActor = Actor{ID: "system", Name: "system", Email: "system@localhost"}
