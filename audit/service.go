// api/audit/service.go
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recorder is the sink mutations report to.
type Recorder interface {
	Record(ctx context.Context, fact Fact) error
}

type Service interface {
	Recorder
	QueryLogs(ctx context.Context, filter Filter) ([]AuditLog, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Record(ctx context.Context, fact Fact) error {
	if fact.Action == "" || fact.Entity == "" || fact.EntityID == "" {
		return fmt.Errorf("audit fact requires action, entity and entity id")
	}
	at := fact.At
	if at.IsZero() {
		at = s.now()
	}
	return s.repo.Save(ctx, AuditLog{
		ID: uuid.New().String(),
		User: RecordUser{
			ID:    fact.Actor.ID,
			Name:  fact.Actor.Name,
			Email: fact.Actor.Email,
		},
		Action:    fact.Action,
		Entity:    fact.Entity,
		EntityID:  fact.EntityID,
		CreatedAt: at.UTC(),
	})
}

func (s *service) QueryLogs(ctx context.Context, filter Filter) ([]AuditLog, error) {
	return s.repo.Query(ctx, filter)
}
