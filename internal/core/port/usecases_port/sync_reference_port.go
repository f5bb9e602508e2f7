package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// SyncReferenceUseCase applies replication events from the user and
// category services to the local read models.
type SyncReferenceUseCase interface {
	ApplyCategorieUpserted(ctx context.Context, categorie domain.Categorie) error
	ApplyCategorieDeleted(ctx context.Context, id uuid.UUID) error
	ApplyEmployeurUpserted(ctx context.Context, employeur domain.Employeur) error
}
