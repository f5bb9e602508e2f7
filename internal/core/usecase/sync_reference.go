package usecase

import (
	"context"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

// SyncReferenceUseCase keeps the users and categories read models in step
// with the owning services. Events are idempotent upserts.
type SyncReferenceUseCase struct {
	storage port.ReferenceStoragePort
}

func NewSyncReferenceUseCase(storage port.ReferenceStoragePort) *SyncReferenceUseCase {
	return &SyncReferenceUseCase{storage: storage}
}

func (uc *SyncReferenceUseCase) ApplyCategorieUpserted(ctx context.Context, categorie domain.Categorie) error {
	logger := contextkeys.LoggerFromContext(ctx)
	if categorie.Nom == "" {
		return domain.NewValidationError("Le nom de la catégorie est requis.")
	}
	if err := uc.storage.UpsertCategorie(ctx, categorie); err != nil {
		logger.Error("Failed to upsert categorie", err, port.Fields{"categorie_id": categorie.ID.String()})
		return fmt.Errorf("failed to upsert categorie: %w", err)
	}
	logger.Debug("Categorie synced", port.Fields{"categorie_id": categorie.ID.String()})
	return nil
}

func (uc *SyncReferenceUseCase) ApplyCategorieDeleted(ctx context.Context, id uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	if err := uc.storage.DeleteCategorie(ctx, id); err != nil {
		logger.Error("Failed to delete categorie", err, port.Fields{"categorie_id": id.String()})
		return fmt.Errorf("failed to delete categorie: %w", err)
	}
	return nil
}

func (uc *SyncReferenceUseCase) ApplyEmployeurUpserted(ctx context.Context, employeur domain.Employeur) error {
	logger := contextkeys.LoggerFromContext(ctx)
	if err := uc.storage.UpsertEmployeur(ctx, employeur); err != nil {
		logger.Error("Failed to upsert employeur", err, port.Fields{"employeur_id": employeur.ID.String()})
		return fmt.Errorf("failed to upsert employeur: %w", err)
	}
	logger.Debug("Employeur synced", port.Fields{"employeur_id": employeur.ID.String()})
	return nil
}
