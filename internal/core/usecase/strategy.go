package usecase

import (
	"context"
	"sort"
	"time"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// annonceQueryStrategy is one execution path of the search engine. Both
// implementations return the page of cards plus the total size of the
// filtered set, so pagination math lives in exactly one place.
type annonceQueryStrategy interface {
	execute(ctx context.Context, filters domain.EffectiveFilters, p domain.Pagination, now time.Time) ([]domain.AnnonceCard, int, error)
}

// pagedStrategy is the non-geo path: an indexed COUNT plus a skip/limit
// query, both pushed down to the store.
type pagedStrategy struct {
	storage port.AnnonceStoragePort
}

func (s *pagedStrategy) execute(ctx context.Context, filters domain.EffectiveFilters, p domain.Pagination, now time.Time) ([]domain.AnnonceCard, int, error) {
	total, err := s.storage.CountWithFilters(ctx, filters, now)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.AnnonceCard{}, 0, nil
	}

	cards, err := s.storage.FindWithFilters(ctx, filters, now, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// geoStrategy is the radius path: fetch a bounded candidate set via a
// coarse store prefilter, then filter by exact great-circle distance,
// annotate distanceKm, order boosted-first/nearest-first and slice the page
// in process. Spherical proximity cannot be paginated cheaply server-side,
// so the total is the length of the filtered set.
type geoStrategy struct {
	storage    port.AnnonceStoragePort
	fetchLimit int
}

func (s *geoStrategy) execute(ctx context.Context, filters domain.EffectiveFilters, p domain.Pagination, now time.Time) ([]domain.AnnonceCard, int, error) {
	geo := filters.Geo

	q := port.GeoCandidateQuery{
		Center:     geo.Center,
		RadiusKm:   geo.RadiusKm,
		Box:        domain.BoundingBoxAround(geo.Center, geo.RadiusKm),
		FetchLimit: s.fetchLimit,
	}

	candidates, err := s.storage.FindGeoCandidates(ctx, filters, now, q)
	if err != nil {
		return nil, 0, err
	}

	type ranked struct {
		card domain.AnnonceCard
		km   float64
	}

	// Operate on a local copy of the fetched records: the annotation step
	// must never touch rows shared with other requests.
	matched := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		if c.Localisation.Point == nil {
			continue
		}
		km := domain.HaversineKm(geo.Center, *c.Localisation.Point)
		if km > geo.RadiusKm {
			continue
		}
		card := c
		rounded := domain.RoundDistanceKm(km)
		card.DistanceKm = &rounded
		matched = append(matched, ranked{card: card, km: km})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.card.EstPremiumAnnonce != b.card.EstPremiumAnnonce {
			return a.card.EstPremiumAnnonce
		}
		if a.km != b.km {
			return a.km < b.km
		}
		return a.card.CreatedAt.After(b.card.CreatedAt)
	})

	total := len(matched)

	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}

	page := make([]domain.AnnonceCard, 0, end-start)
	for _, m := range matched[start:end] {
		page = append(page, m.card)
	}
	return page, total, nil
}
