package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type UpdateAnnonceUseCase interface {
	Execute(ctx context.Context, id uuid.UUID, input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error)
}
