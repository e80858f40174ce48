// Package producer holds the long-running loops that translate change-feed
// events into alerts.
package producer

import (
	"context"

	"vehicle-alert-service/internal/models"
)

// Dispatcher receives every synthesized alert.
type Dispatcher interface {
	Push(ctx context.Context, a models.Alert)
}
