package usecase

import (
	"context"
	"fmt"
	"time"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
)

// MarkExpiredUseCase is the periodic sweep flipping active listings past
// their expiration date to statut = expiree, notifying each owner.
type MarkExpiredUseCase struct {
	storage       port.AnnonceStoragePort
	notifications port.NotificationQueuePort
	now           func() time.Time
}

func NewMarkExpiredUseCase(storage port.AnnonceStoragePort, notifications port.NotificationQueuePort) *MarkExpiredUseCase {
	return &MarkExpiredUseCase{
		storage:       storage,
		notifications: notifications,
		now:           time.Now,
	}
}

func (uc *MarkExpiredUseCase) Execute(ctx context.Context) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "MarkExpired"})

	expired, err := uc.storage.MarkExpired(ctx, uc.now())
	if err != nil {
		ucLogger.Error("Expiration sweep failed", err, nil)
		return 0, fmt.Errorf("failed to mark expired annonces: %w", err)
	}
	if len(expired) == 0 {
		ucLogger.Debug("No annonce to expire", nil)
		return 0, nil
	}

	for _, a := range expired {
		employeurID := a.EmployeurID
		n := port.Notification{
			DestinataireID: &employeurID,
			Type:           constants.NotifAnnonceExpiree,
			Message:        fmt.Sprintf("Votre annonce %q a expiré et n'est plus visible.", a.Titre),
			Lien:           "/mes-annonces/" + a.ID.String(),
			Metadata:       map[string]interface{}{"nomAnnonce": a.Titre},
		}
		if err := uc.notifications.PublishNotification(ctx, n); err != nil {
			ucLogger.Warn("Failed to publish expiration notification", port.Fields{
				"annonce_id": a.ID.String(),
				"error":      err.Error(),
			})
		}
	}

	ucLogger.Info("Expiration sweep done", port.Fields{"count": len(expired)})
	return len(expired), nil
}
