package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Event types replicated from the user and category services.
const (
	EventCategorieUpserted = "CATEGORIE_UPSERTED"
	EventCategorieDeleted  = "CATEGORIE_DELETED"
	EventEmployeurUpserted = "EMPLOYEUR_UPSERTED"
)

// referenceEvent is the envelope on the reference-data exchange.
type referenceEvent struct {
	Type    string          `json:"type"`
	TraceID string          `json:"traceId,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// ReferenceSyncConsumerAdapter listens for user/category replication
// events and applies them to the local read models.
type ReferenceSyncConsumerAdapter struct {
	consumer *rabbitmq_consumer.MessageConsumer
	useCase  usecases_port.SyncReferenceUseCase
	logger   port.LoggerPort
}

func NewReferenceSyncConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.SyncReferenceUseCase,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ReferenceSyncConsumerAdapter, error) {
	adapter := &ReferenceSyncConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{
		"component":    "rabbitmq_reference_consumer",
		"consumer_tag": consumerCfg.ConsumerTag,
	})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewMessageConsumer(consumerCfg, adapter.handleMessage, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create reference sync consumer: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

// StartConsuming blocks until ctx is cancelled.
func (a *ReferenceSyncConsumerAdapter) StartConsuming(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *ReferenceSyncConsumerAdapter) Close() error {
	return a.consumer.Close()
}

func (a *ReferenceSyncConsumerAdapter) handleMessage(ctx context.Context, d amqp.Delivery) error {
	var event referenceEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		// Malformed messages would fail forever; log and drop via the
		// retry loop's DLQ.
		return fmt.Errorf("malformed reference event: %w", err)
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"event_type": event.Type,
		"trace_id":   event.TraceID,
	})
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	if event.TraceID != "" {
		ctx = contextkeys.ContextWithTraceID(ctx, event.TraceID)
	}

	switch event.Type {
	case EventCategorieUpserted:
		var categorie domain.Categorie
		if err := json.Unmarshal(event.Payload, &categorie); err != nil {
			return fmt.Errorf("malformed categorie payload: %w", err)
		}
		return a.useCase.ApplyCategorieUpserted(ctx, categorie)

	case EventCategorieDeleted:
		var payload struct {
			ID uuid.UUID `json:"id"`
		}
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("malformed categorie payload: %w", err)
		}
		return a.useCase.ApplyCategorieDeleted(ctx, payload.ID)

	case EventEmployeurUpserted:
		var employeur domain.Employeur
		if err := json.Unmarshal(event.Payload, &employeur); err != nil {
			return fmt.Errorf("malformed employeur payload: %w", err)
		}
		return a.useCase.ApplyEmployeurUpserted(ctx, employeur)

	default:
		msgLogger.Warn("Unknown reference event type, dropping", nil)
		return nil
	}
}
