package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/hostelcare/hub"
	"github.com/yeremiapane/hostelcare/models"
	"gorm.io/gorm"
)

// Notifier records per-user notifications and pushes workflow events to
// connected clients. A nil hub only disables the push.
type Notifier struct {
	db  *gorm.DB
	hub *hub.Hub
}

func NewNotifier(db *gorm.DB, h *hub.Hub) *Notifier {
	return &Notifier{db: db, hub: h}
}

// Notify stores a notification for userID and sends the event to the user's
// open connections.
func (n *Notifier) Notify(ctx context.Context, userID uint, event, message string, data interface{}) error {
	notif := models.Notification{
		UserID:  userID,
		Event:   event,
		Message: message,
	}
	if err := n.db.WithContext(ctx).Create(&notif).Error; err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	n.hub.SendToUser(userID, hub.Message{Event: event, Data: data})
	return nil
}

// Broadcast pushes an event to every connected user with role. Nothing is
// persisted.
func (n *Notifier) Broadcast(role, event string, data interface{}) {
	n.hub.SendToRole(role, hub.Message{Event: event, Data: data})
}
