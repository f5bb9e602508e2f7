package port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// ReferenceStoragePort maintains the replicated users and categories read
// models that card population joins against.
type ReferenceStoragePort interface {
	UpsertCategorie(ctx context.Context, categorie domain.Categorie) error
	DeleteCategorie(ctx context.Context, id uuid.UUID) error
	UpsertEmployeur(ctx context.Context, employeur domain.Employeur) error
}
