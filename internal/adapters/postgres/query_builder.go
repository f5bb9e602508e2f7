package postgres

import (
	"fmt"
	"strings"
	"time"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/mmcloughlin/geohash"
)

// queryBuilder accumulates WHERE conditions with positional args. The base
// conditions enforce search visibility: only active, unexpired listings.
type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(now time.Time) *queryBuilder {
	return &queryBuilder{
		conditions: []string{"a.statut = 'active'", "a.date_expiration > $1"},
		args:       []interface{}{now},
		argId:      2,
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// AddVilleFilter matches ville as a case-insensitive substring, so partial
// names like "Doua" still find listings in Douala.
func (qb *queryBuilder) AddVilleFilter(ville string) {
	if ville == "" {
		return
	}
	qb.addCondition("%s ILIKE $%d", "a.ville", "%"+ville+"%")
}

// AddKeywordFilter matches motCle against titre, description, ville and the
// required skills. One arg, referenced from every branch of the OR.
func (qb *queryBuilder) AddKeywordFilter(motCle string) {
	if motCle == "" {
		return
	}
	n := qb.argId
	qb.conditions = append(qb.conditions, fmt.Sprintf(
		"(a.titre ILIKE $%d OR a.description ILIKE $%d OR a.ville ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(a.competences_requises) AS comp WHERE comp ILIKE $%d))",
		n, n, n, n,
	))
	qb.args = append(qb.args, "%"+motCle+"%")
	qb.argId++
}

// AddGeoPrefilter narrows candidates to the bounding box plus the geohash
// cells covering it (center cell and its 8 neighbors). Listings without a
// point are excluded by the IS NOT NULL guard.
func (qb *queryBuilder) AddGeoPrefilter(q port.GeoCandidateQuery) {
	qb.conditions = append(qb.conditions, "a.longitude IS NOT NULL", "a.latitude IS NOT NULL")
	qb.addCondition("%s >= $%d", "a.latitude", q.Box.MinLatitude)
	qb.addCondition("%s <= $%d", "a.latitude", q.Box.MaxLatitude)
	qb.addCondition("%s >= $%d", "a.longitude", q.Box.MinLongitude)
	qb.addCondition("%s <= $%d", "a.longitude", q.Box.MaxLongitude)
	qb.addCondition("%s LIKE ANY($%d)", "a.geohash", geoCellPatterns(q.Center, q.RadiusKm))
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyFilters turns the effective filters into a WHERE clause. now is
// always $1 so the same clause serves COUNT and data queries.
func applyFilters(filters domain.EffectiveFilters, now time.Time) (string, []interface{}) {
	qb := newQueryBuilder(now)

	if filters.CategorieID != nil {
		qb.addCondition("%s = $%d", "a.categorie_id", *filters.CategorieID)
	}
	qb.AddVilleFilter(filters.Ville)
	qb.AddKeywordFilter(filters.MotCle)
	qb.AddFloatFilter("a.remuneration_montant", filters.MontantMin, filters.MontantMax)

	return qb.build()
}

// employeurListConditions builds the WHERE clause for an owner's listing
// page. Soft-deleted rows stay hidden and the keyword searches titles only.
func employeurListConditions(filter port.MyAnnoncesFilter) (string, []interface{}) {
	conditions := []string{"a.employeur_id = $1", "a.statut != 'supprimee'"}
	args := []interface{}{filter.EmployeurID}
	argId := 2

	if filter.Statut != "" {
		conditions = append(conditions, fmt.Sprintf("a.statut = $%d", argId))
		args = append(args, filter.Statut)
		argId++
	}
	if filter.MotCle != "" {
		conditions = append(conditions, fmt.Sprintf("a.titre ILIKE $%d", argId))
		args = append(args, "%"+filter.MotCle+"%")
		argId++
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// geohashPrecisionForRadius picks the coarsest precision whose cell still
// covers the radius, so center + neighbors always contain the full circle.
func geohashPrecisionForRadius(radiusKm float64) uint {
	switch {
	case radiusKm <= 0.6:
		return 6
	case radiusKm <= 2.4:
		return 5
	case radiusKm <= 19:
		return 4
	case radiusKm <= 78:
		return 3
	case radiusKm <= 620:
		return 2
	}
	return 1
}

// geoCellPatterns returns the LIKE patterns for the geohash cells around the
// center at the precision matching the radius.
func geoCellPatterns(center domain.GeoPoint, radiusKm float64) []string {
	precision := geohashPrecisionForRadius(radiusKm)
	cell := geohash.EncodeWithPrecision(center.Latitude, center.Longitude, precision)

	cells := append([]string{cell}, geohash.Neighbors(cell)...)
	patterns := make([]string, 0, len(cells))
	seen := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		patterns = append(patterns, c+"%")
	}
	return patterns
}
