package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type MyAnnoncesParams struct {
	Page   int
	Limit  int
	Statut string
	MotCle string
}

type MyAnnoncesUseCase interface {
	Execute(ctx context.Context, params MyAnnoncesParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error)
}
