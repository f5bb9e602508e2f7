package port

import (
	"context"

	"github.com/google/uuid"
)

// Notification is an event pushed to the notification exchange for the
// notification service to fan out (in-app, email).
type Notification struct {
	DestinataireID *uuid.UUID             `json:"destinataireId,omitempty"` // nil = admin broadcast
	Type           string                 `json:"type"`
	Message        string                 `json:"message"`
	Lien           string                 `json:"lien,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// NotificationQueuePort publishes notification events. Publishing is
// best-effort from the use cases' point of view: a broker failure must not
// fail the business operation that triggered it.
type NotificationQueuePort interface {
	PublishNotification(ctx context.Context, n Notification) error
}
