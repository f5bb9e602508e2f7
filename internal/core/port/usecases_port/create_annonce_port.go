package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type CreateAnnonceUseCase interface {
	Execute(ctx context.Context, input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error)
}
