package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetAnnonceUseCase interface {
	Execute(ctx context.Context, id uuid.UUID, requester domain.RequesterContext) (*domain.AnnonceCard, error)
}
