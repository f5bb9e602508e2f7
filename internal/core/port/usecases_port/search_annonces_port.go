package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type SearchAnnoncesUseCase interface {
	Execute(ctx context.Context, params domain.SearchParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error)
}
