package alert

import (
	"context"

	"github.com/sirupsen/logrus"
	"vehicle-alert-service/internal/models"
	"vehicle-alert-service/internal/stream"
)

// NotificationStore records every dispatched alert durably.
type NotificationStore interface {
	CreateNotification(ctx context.Context, userID, title, message string) (models.Notification, error)
}

// Dispatcher fans an alert out to the user's live connections and records it
// as a notification. Delivery is best-effort per connection; the record is
// written unconditionally.
type Dispatcher struct {
	registry *stream.Registry
	store    NotificationStore
	logger   *logrus.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(registry *stream.Registry, store NotificationStore, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, store: store, logger: logger}
}

// Push delivers the alert to every live connection of alert.UserID, pruning
// any connection whose send fails, then persists the notification record.
// Absence of subscribers is a normal condition, not an error.
func (d *Dispatcher) Push(ctx context.Context, a models.Alert) {
	subs := d.registry.Get(a.UserID)
	if len(subs) == 0 {
		d.logger.Debugf("No active connections for user_id=%s, skip delivery", a.UserID)
	}

	for _, sub := range subs {
		ev := stream.Event{ID: a.ID, Name: "ALERT", Data: a}
		if err := sub.Send(ev); err != nil {
			// A failed connection is pruned; delivery to the rest continues.
			sub.Close()
			d.logger.Warnf("Failed to send alert to user_id=%s sub_id=%s alert_id=%s: %v",
				a.UserID, sub.ID, a.ID, err)
		}
	}

	d.logger.Infof("Alert pushed: user_id=%s type=%s title=%s", a.UserID, a.Type, a.Title)

	// Persist always, regardless of how many connections received the event.
	if _, err := d.store.CreateNotification(ctx, a.UserID, models.CategoryFromType(a.Type), a.Message); err != nil {
		d.logger.Errorf("CreateNotification failed for user_id=%s alert_id=%s: %v", a.UserID, a.ID, err)
	}
}
