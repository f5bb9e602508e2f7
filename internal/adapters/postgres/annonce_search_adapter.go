package postgres

import (
	"context"
	"fmt"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// CountWithFilters returns the size of the visible set matching the filters.
func (a *AnnonceStorageAdapter) CountWithFilters(ctx context.Context, filters domain.EffectiveFilters, now time.Time) (int, error) {
	whereClause, args := applyFilters(filters, now)

	query := fmt.Sprintf("SELECT COUNT(*) FROM annonces a %s", whereClause)
	var count int
	if err := a.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count annonces with filters: %w", err)
	}
	return count, nil
}

// FindWithFilters returns one page of visible listings, boosted listings
// first, then ordered by the requested sort.
func (a *AnnonceStorageAdapter) FindWithFilters(ctx context.Context, filters domain.EffectiveFilters, now time.Time, limit, offset int) ([]domain.AnnonceCard, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "AnnonceStorageAdapter",
		"method":    "FindWithFilters",
		"limit":     limit,
		"offset":    offset,
	})

	whereClause, args := applyFilters(filters, now)

	query := fmt.Sprintf(`
		SELECT %s
		FROM annonces a %s
		%s
		ORDER BY a.est_premium DESC, %s, a.id ASC
		LIMIT $%d OFFSET $%d`,
		annonceCardColumns, annonceCardJoins, whereClause, orderClause(filters.Sort),
		len(args)+1, len(args)+2,
	)

	rows, err := a.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		repoLogger.Error("Failed to find annonces with filters", err, nil)
		return nil, fmt.Errorf("failed to find annonces with filters: %w", err)
	}
	defer rows.Close()

	cards := make([]domain.AnnonceCard, 0, limit)
	for rows.Next() {
		card, err := scanAnnonceCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan annonce: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	repoLogger.Debug("Found annonces for page", port.Fields{"count": len(cards)})
	return cards, nil
}

// FindGeoCandidates returns the visible listings matching the filters inside
// the coarse geo bounds, unordered. The exact haversine filter and the
// nearest-first ordering happen in the engine.
func (a *AnnonceStorageAdapter) FindGeoCandidates(ctx context.Context, filters domain.EffectiveFilters, now time.Time, q port.GeoCandidateQuery) ([]domain.AnnonceCard, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "AnnonceStorageAdapter",
		"method":    "FindGeoCandidates",
		"radius_km": q.RadiusKm,
	})

	qb := newQueryBuilder(now)
	if filters.CategorieID != nil {
		qb.addCondition("%s = $%d", "a.categorie_id", *filters.CategorieID)
	}
	qb.AddVilleFilter(filters.Ville)
	qb.AddKeywordFilter(filters.MotCle)
	qb.AddFloatFilter("a.remuneration_montant", filters.MontantMin, filters.MontantMax)
	qb.AddGeoPrefilter(q)
	whereClause, args := qb.build()

	query := fmt.Sprintf(`
		SELECT %s
		FROM annonces a %s
		%s
		LIMIT $%d`,
		annonceCardColumns, annonceCardJoins, whereClause, len(args)+1,
	)

	rows, err := a.pool.Query(ctx, query, append(args, q.FetchLimit)...)
	if err != nil {
		repoLogger.Error("Failed to query geo candidates", err, nil)
		return nil, fmt.Errorf("failed to query geo candidates: %w", err)
	}
	defer rows.Close()

	cards := make([]domain.AnnonceCard, 0)
	for rows.Next() {
		card, err := scanAnnonceCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geo candidate: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	repoLogger.Debug("Fetched geo candidates", port.Fields{"count": len(cards)})
	return cards, nil
}

// orderClause maps the whitelisted sort field to its column. The whitelist
// lives in the domain; anything unexpected falls back to created_at.
func orderClause(sort domain.SortSpec) string {
	column := "a.created_at"
	switch sort.Champ {
	case domain.SortRemuneration:
		column = "a.remuneration_montant"
	case domain.SortNombreVues:
		column = "a.nombre_vues"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	return column + " " + direction
}
