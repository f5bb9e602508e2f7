package usecase

import (
	"context"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

// DeleteAnnonceUseCase soft-deletes a listing. The owning employer or an
// admin may delete; the row is kept with statut = supprimee.
type DeleteAnnonceUseCase struct {
	storage port.AnnonceStoragePort
}

func NewDeleteAnnonceUseCase(storage port.AnnonceStoragePort) *DeleteAnnonceUseCase {
	return &DeleteAnnonceUseCase{storage: storage}
}

func (uc *DeleteAnnonceUseCase) Execute(ctx context.Context, id uuid.UUID, requester domain.RequesterContext) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "DeleteAnnonce",
		"annonce_id": id.String(),
	})

	if !requester.EstAuthentifie() {
		return domain.NewForbiddenError("Authentification requise pour supprimer une annonce.")
	}

	annonce, err := uc.storage.GetByIDForOwner(ctx, id)
	if err != nil {
		if err != domain.ErrAnnonceNotFound {
			ucLogger.Error("Failed to load annonce", err, nil)
		}
		return err
	}
	if annonce.EmployeurID != *requester.UserID && requester.Role != domain.RoleAdmin {
		return domain.NewForbiddenError("Vous n'êtes pas autorisé à supprimer cette annonce.")
	}

	if err := uc.storage.SoftDelete(ctx, id); err != nil {
		ucLogger.Error("Failed to soft-delete annonce", err, nil)
		return fmt.Errorf("failed to delete annonce: %w", err)
	}

	ucLogger.Info("Annonce deleted", nil)
	return nil
}
