package usecase

import (
	"context"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// SearchAnnoncesUseCase is the listing search engine: it resolves the
// tier-gated effective filters, picks the geo or non-geo strategy and
// returns a ranked, paginated page of visible listings.
type SearchAnnoncesUseCase struct {
	storage port.AnnonceStoragePort
	cfg     domain.SearchConfig
	now     func() time.Time
}

func NewSearchAnnoncesUseCase(storage port.AnnonceStoragePort, cfg domain.SearchConfig) *SearchAnnoncesUseCase {
	return &SearchAnnoncesUseCase{
		storage: storage,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (uc *SearchAnnoncesUseCase) Execute(ctx context.Context, params domain.SearchParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "SearchAnnonces",
		"role":       requester.Role,
		"abonnement": requester.TypeAbonnement,
	})

	pagination := domain.NormalizePagination(params, uc.cfg)
	filters, warnings := domain.ResolveEffectiveFilters(requester, params, uc.cfg)
	for _, w := range warnings {
		ucLogger.Warn(w, nil)
	}

	var strategy annonceQueryStrategy
	if filters.Geo != nil {
		ucLogger.Info("Geo search active", port.Fields{
			"longitude":  filters.Geo.Center.Longitude,
			"latitude":   filters.Geo.Center.Latitude,
			"max_dist_m": filters.Geo.RadiusKm * 1000,
		})
		strategy = &geoStrategy{storage: uc.storage, fetchLimit: uc.cfg.GeoFetchLimit}
	} else {
		strategy = &pagedStrategy{storage: uc.storage}
	}

	cards, total, err := strategy.execute(ctx, filters, pagination, uc.now())
	if err != nil {
		ucLogger.Error("Search strategy failed", err, nil)
		return nil, err
	}

	ucLogger.Info("Search finished", port.Fields{
		"total_found":   total,
		"items_on_page": len(cards),
		"page":          pagination.Page,
	})

	return &domain.PaginatedAnnonces{
		Annonces:      cards,
		TotalAnnonces: total,
		TotalPages:    totalPages(total, pagination.Limit),
		CurrentPage:   pagination.Page,
	}, nil
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
