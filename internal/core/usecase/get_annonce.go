package usecase

import (
	"context"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

// GetAnnonceUseCase returns one visible listing, applying the same
// free-tier price cap as the search engine: a capped listing reached by
// direct URL yields an explicit ForbiddenError, never redacted fields.
type GetAnnonceUseCase struct {
	storage port.AnnonceStoragePort
	cfg     domain.SearchConfig
	now     func() time.Time
}

func NewGetAnnonceUseCase(storage port.AnnonceStoragePort, cfg domain.SearchConfig) *GetAnnonceUseCase {
	return &GetAnnonceUseCase{storage: storage, cfg: cfg, now: time.Now}
}

func (uc *GetAnnonceUseCase) Execute(ctx context.Context, id uuid.UUID, requester domain.RequesterContext) (*domain.AnnonceCard, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetAnnonce",
		"annonce_id": id.String(),
	})

	card, err := uc.storage.GetVisibleByID(ctx, id, uc.now())
	if err != nil {
		if err != domain.ErrAnnonceNotFound {
			ucLogger.Error("Storage returned an error", err, nil)
		}
		return nil, err
	}

	if requester.EstAuthentifie() && requester.Role == domain.RoleTravailleur &&
		requester.TypeAbonnement == domain.AbonnementGratuit &&
		card.Remuneration.Montant > uc.cfg.SeuilBasPrix {
		ucLogger.Debug("Annonce above free-tier price cap", port.Fields{
			"montant": card.Remuneration.Montant,
			"seuil":   uc.cfg.SeuilBasPrix,
		})
		return nil, domain.NewForbiddenError("Cette annonce est réservée aux membres premium. Passez premium pour la consulter !")
	}

	// Best-effort: a failed counter update must not fail the read.
	if err := uc.storage.IncrementVues(ctx, id); err != nil {
		ucLogger.Warn("Failed to increment view counter", port.Fields{"error": err.Error()})
	} else {
		card.NombreVues++
	}

	return card, nil
}
