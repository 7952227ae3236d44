// api/util/event_bus.go

package util

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

type EventType string

const (
	EventRoleCreated EventType = "role.created"
	EventRoleUpdated EventType = "role.updated"
	EventRoleDeleted EventType = "role.deleted"
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
	EventUserDeleted EventType = "user.deleted"
	EventTeamCreated EventType = "team.created"
	EventTeamUpdated EventType = "team.updated"
	EventTeamDeleted EventType = "team.deleted"
)

// Event is published after a mutation has been stored. Payload holds the new snapshot,
// or nil for deletes.
type Event struct {
	Type     EventType
	EntityID string
	Actor    model.Actor
	Payload  interface{}
	At       time.Time
}

// EventHandler is a function that handles an event
type EventHandler func(context.Context, Event) error

type subscription struct {
	id      int
	handler EventHandler
}

// EventBus fans events out to subscribers, each handler on its own goroutine.
type EventBus struct {
	subscribers map[EventType][]subscription
	nextID      int
	mu          sync.RWMutex
	inflight    sync.WaitGroup
	errorChan   chan error
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]subscription),
		errorChan:   make(chan error, 100),
	}
}

// Subscribe registers handler for eventType and returns the function that removes it.
func (eb *EventBus) Subscribe(eventType EventType, handler EventHandler) func() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	id := eb.nextID
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscription{id: id, handler: handler})

	return func() { eb.unsubscribe(eventType, id) }
}

func (eb *EventBus) unsubscribe(eventType EventType, id int) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[eventType]
	for i, s := range subs {
		if s.id == id {
			eb.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish hands event to every subscriber. Handlers outlive the request, so they get a
// context that is not cancelled with ctx.
func (eb *EventBus) Publish(ctx context.Context, event Event) {
	eb.mu.RLock()
	subs := eb.subscribers[event.Type]
	eb.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	detached := context.WithoutCancel(ctx)
	for _, s := range subs {
		eb.inflight.Add(1)
		go func(h EventHandler) {
			defer eb.inflight.Done()
			if err := h(detached, event); err != nil {
				select {
				case eb.errorChan <- fmt.Errorf("event handler error: %w", err):
				default:
					logger.Error("Error channel full, logging event handler error",
						zap.Error(err),
						zap.String("eventType", string(event.Type)))
				}
			}
		}(s.handler)
	}
}

// Start begins processing errors
func (eb *EventBus) Start(ctx context.Context) {
	go eb.processErrors(ctx)
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}

func (eb *EventBus) processErrors(ctx context.Context) {
	for {
		select {
		case err := <-eb.errorChan:
			logger.Error("Event handler error", zap.Error(err))
		case <-ctx.Done():
			return
		}
	}
}
