// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

// NotificationService tells interested parties about role, user and team changes. For
// now the sink is the log.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Subscribe wires the notifications to every event the services publish.
func (n *NotificationService) Subscribe(bus *EventBus) {
	for _, t := range []EventType{EventRoleCreated, EventRoleUpdated, EventRoleDeleted} {
		bus.Subscribe(t, n.onRoleEvent)
	}
	for _, t := range []EventType{EventUserCreated, EventUserUpdated, EventUserDeleted} {
		bus.Subscribe(t, n.onUserEvent)
	}
	for _, t := range []EventType{EventTeamCreated, EventTeamUpdated, EventTeamDeleted} {
		bus.Subscribe(t, n.onTeamEvent)
	}
}

func changeType(t EventType) string {
	switch t {
	case EventRoleCreated, EventUserCreated, EventTeamCreated:
		return "created"
	case EventRoleUpdated, EventUserUpdated, EventTeamUpdated:
		return "updated"
	case EventRoleDeleted, EventUserDeleted, EventTeamDeleted:
		return "deleted"
	}
	return string(t)
}

func (n *NotificationService) onRoleEvent(ctx context.Context, e Event) error {
	role, _ := e.Payload.(model.Role)
	role.ID = e.EntityID
	return n.NotifyRoleChange(ctx, changeType(e.Type), role)
}

func (n *NotificationService) onUserEvent(ctx context.Context, e Event) error {
	user, _ := e.Payload.(model.User)
	user.ID = e.EntityID
	return n.NotifyUserChange(ctx, changeType(e.Type), user)
}

func (n *NotificationService) onTeamEvent(ctx context.Context, e Event) error {
	team, _ := e.Payload.(model.Team)
	team.ID = e.EntityID
	return n.NotifyTeamChange(ctx, changeType(e.Type), team)
}

func (n *NotificationService) NotifyRoleChange(ctx context.Context, changeType string, role model.Role) error {
	switch changeType {
	case "created", "updated":
		logger.Info("NOTIFICATION: Role "+changeType,
			zap.String("roleID", role.ID),
			zap.String("roleName", role.Name),
			zap.Bool("isActive", role.IsActive),
			zap.Int("grants", len(role.Permissions)))
	case "deleted":
		logger.Info("NOTIFICATION: Role deleted", zap.String("roleID", role.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}

func (n *NotificationService) NotifyUserChange(ctx context.Context, changeType string, user model.User) error {
	switch changeType {
	case "created", "updated":
		logger.Info("NOTIFICATION: User "+changeType,
			zap.String("userID", user.ID),
			zap.String("email", user.Email),
			zap.String("teamID", user.TeamID()))
	case "deleted":
		logger.Info("NOTIFICATION: User deleted", zap.String("userID", user.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}

func (n *NotificationService) NotifyTeamChange(ctx context.Context, changeType string, team model.Team) error {
	switch changeType {
	case "created", "updated":
		logger.Info("NOTIFICATION: Team "+changeType,
			zap.String("teamID", team.ID),
			zap.String("teamName", team.Name))
	case "deleted":
		logger.Info("NOTIFICATION: Team deleted", zap.String("teamID", team.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}
