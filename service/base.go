// api/service/base.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	"github.com/dev-mohitbeniwal/teamaccess/api/dao"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/metrics"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// Dependencies is what the mutation services share.
type Dependencies struct {
	Store          dao.Store
	Locker         util.Locker
	Cache          util.CacheService
	Audit          audit.Recorder
	ValidationUtil *util.ValidationUtil
	EventBus       *util.EventBus
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

type base struct {
	deps Dependencies
}

func newBase(deps Dependencies) base {
	if deps.Cache == nil {
		deps.Cache = util.NoopCache{}
	}
	if deps.ValidationUtil == nil {
		deps.ValidationUtil = util.NewValidationUtil()
	}
	if deps.EventBus == nil {
		deps.EventBus = util.NewEventBus()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return base{deps: deps}
}

func (b base) now() time.Time {
	return b.deps.Now().UTC()
}

// record hands the fact to the audit sink. The mutation has already been stored, so a
// sink failure is logged and counted, never returned.
func (b base) record(ctx context.Context, actor model.Actor, action audit.Action, entity audit.Entity, entityID string) {
	err := b.deps.Audit.Record(ctx, audit.Fact{
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		At:       b.now(),
	})
	if err != nil {
		b.deps.Metrics.AuditFailed()
		logger.Error("Failed to record audit fact",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.String("entity", string(entity)),
			zap.String("entityID", entityID),
			zap.String("actorID", actor.ID))
	}
}

// done finishes a mutation: success emits the audit fact and the event, and both
// outcomes are counted.
func (b base) done(ctx context.Context, actor model.Actor, action audit.Action, entity audit.Entity, entityID string, event util.EventType, payload interface{}, err error) {
	b.deps.Metrics.ObserveMutation(string(entity), string(action), err)
	if err != nil {
		return
	}
	b.record(ctx, actor, action, entity, entityID)
	b.deps.EventBus.Publish(ctx, util.Event{
		Type:     event,
		EntityID: entityID,
		Actor:    actor,
		Payload:  payload,
	})
}

func (b base) lock(ctx context.Context, keys ...string) (func(), error) {
	unlock, err := b.deps.Locker.Lock(ctx, keys...)
	if err != nil {
		logger.Warn("Failed to acquire entity locks", zap.Error(err), zap.Strings("keys", keys))
		return nil, err
	}
	return unlock, nil
}
