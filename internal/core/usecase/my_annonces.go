package usecase

import (
	"context"
	"fmt"
	"strings"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

// MyAnnoncesUseCase lists an employer's own listings in every statut. No
// tier gating applies: an owner always sees their own data.
type MyAnnoncesUseCase struct {
	storage port.AnnonceStoragePort
	cfg     domain.SearchConfig
}

func NewMyAnnoncesUseCase(storage port.AnnonceStoragePort, cfg domain.SearchConfig) *MyAnnoncesUseCase {
	return &MyAnnoncesUseCase{storage: storage, cfg: cfg}
}

func (uc *MyAnnoncesUseCase) Execute(ctx context.Context, params usecases_port.MyAnnoncesParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "MyAnnonces"})

	if !requester.EstAuthentifie() || requester.Role != domain.RoleEmployeur {
		return nil, domain.NewForbiddenError("Seuls les employeurs peuvent consulter leurs annonces.")
	}

	p := domain.NormalizePagination(domain.SearchParams{Page: params.Page, Limit: params.Limit}, uc.cfg)

	filter := port.MyAnnoncesFilter{
		EmployeurID: *requester.UserID,
		Statut:      strings.TrimSpace(params.Statut),
		MotCle:      strings.TrimSpace(params.MotCle),
	}

	annonces, total, err := uc.storage.FindByEmployeur(ctx, filter, p.Limit, p.Offset())
	if err != nil {
		ucLogger.Error("Failed to list employer annonces", err, nil)
		return nil, fmt.Errorf("failed to list annonces: %w", err)
	}

	return &domain.PaginatedAnnonces{
		Annonces:      annonces,
		TotalAnnonces: total,
		TotalPages:    totalPages(total, p.Limit),
		CurrentPage:   p.Page,
	}, nil
}
