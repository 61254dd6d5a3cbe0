// Package receiver implements the webhook receivers: request verification, verification challenges and
// extraction of the notification actions handed to the action handlers.
package receiver

import (
	"context"

	"github.com/isometry/litium-webhooks/internal/models"
)

// Receiver handles the webhook calls addressed to one named receiver.
type Receiver interface {
	// Name is matched case-insensitively against the route.
	Name() string
	// Receive handles req for the receiver id. Request failures are reported as a response carrying the
	// 4xx status together with an *Error, so the response is always usable.
	Receive(ctx context.Context, id string, req *models.Request) (models.Response, error)
}
