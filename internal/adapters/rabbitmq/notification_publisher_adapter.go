package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationPublisherAdapter publishes notification events to the topic
// exchange consumed by the notification service.
type NotificationPublisherAdapter struct {
	publisher *rabbitmq_producer.Publisher
	logger    port.LoggerPort
}

// notificationEvent is the wire format of a notification.
type notificationEvent struct {
	DestinataireID *string                `json:"destinataireId,omitempty"`
	Type           string                 `json:"type"`
	Message        string                 `json:"message"`
	Lien           string                 `json:"lien,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	TraceID        string                 `json:"traceId,omitempty"`
	EmittedAt      time.Time              `json:"emittedAt"`
}

func NewNotificationPublisherAdapter(
	rabbitURL string,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*NotificationPublisherAdapter, error) {
	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_notification_publisher"})

	publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: rabbitURL},
		ExchangeName:             constants.NotificationsExchange,
		ExchangeType:             constants.NotificationsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   NewPkgLoggerBridge(pkgLogger),
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification publisher: %w", err)
	}

	return &NotificationPublisherAdapter{
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (a *NotificationPublisherAdapter) PublishNotification(ctx context.Context, n port.Notification) error {
	event := notificationEvent{
		Type:      n.Type,
		Message:   n.Message,
		Lien:      n.Lien,
		Metadata:  n.Metadata,
		TraceID:   contextkeys.TraceIDFromContext(ctx),
		EmittedAt: time.Now().UTC(),
	}

	routingKey := constants.RoutingKeyNotifyAdmin
	if n.DestinataireID != nil {
		id := n.DestinataireID.String()
		event.DestinataireID = &id
		routingKey = constants.RoutingKeyNotifyUser
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	err = a.publisher.Publish(ctx, routingKey, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    event.EmittedAt,
		DeliveryMode: amqp.Persistent,
		Type:         n.Type,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (a *NotificationPublisherAdapter) Close() error {
	return a.publisher.Close()
}
