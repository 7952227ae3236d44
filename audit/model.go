// api/audit/model.go
package audit

import (
	"time"

	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionLogin  Action = "LOGIN"
)

type Entity string

const (
	EntityRole Entity = "Role"
	EntityUser Entity = "User"
	EntityTeam Entity = "Team"
)

// Fact is what a successful mutation reports.
type Fact struct {
	Actor    model.Actor
	Action   Action
	Entity   Entity
	EntityID string
	At       time.Time
}

type RecordUser struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuditLog is the stored and queryable form of a Fact.
type AuditLog struct {
	ID        string     `json:"id"`
	User      RecordUser `json:"user"`
	Action    Action     `json:"action"`
	Entity    Entity     `json:"entity"`
	EntityID  string     `json:"entityId"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Filter narrows a log query. Zero values match everything.
type Filter struct {
	Action     Action
	Entity     Entity
	ActorEmail string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return 50
	}
	if f.Limit > 500 {
		return 500
	}
	return f.Limit
}

func (f Filter) offset() int {
	if f.Offset < 0 {
		return 0
	}
	return f.Offset
}
