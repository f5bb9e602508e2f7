package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Roles forwarded by the gateway. An empty role means anonymous.
const (
	RoleTravailleur = "travailleur"
	RoleEmployeur   = "employeur"
	RoleAdmin       = "admin"
)

const AbonnementGratuit = "gratuit"

// RequesterContext is derived per-request from the gateway headers and never
// persisted. It decides which filters and how much of the result set the
// requester may see.
type RequesterContext struct {
	UserID         *uuid.UUID
	Role           string
	TypeAbonnement string
}

// EstAuthentifie reports whether the request carries an identified user.
func (r RequesterContext) EstAuthentifie() bool { return r.UserID != nil }

// EstPremium reports whether the requester is on any premium tier
// (premium_travailleur, premium_employeur, ...).
func (r RequesterContext) EstPremium() bool {
	return strings.HasPrefix(r.TypeAbonnement, "premium")
}

// estTravailleurGratuit is the population subject to the low-price cap.
func (r RequesterContext) estTravailleurGratuit() bool {
	return r.EstAuthentifie() && r.Role == RoleTravailleur && r.TypeAbonnement == AbonnementGratuit
}

// SearchConfig carries the engine's tunables. It is always passed
// explicitly so tests can override values per case.
type SearchConfig struct {
	// SeuilBasPrix caps remuneration.montant for free-tier workers.
	SeuilBasPrix float64
	// DistanceParDefautKm is the geo-search radius when the client omits it.
	DistanceParDefautKm float64
	LimiteParDefaut     int
	LimiteMax           int
	// GeoFetchLimit bounds the candidate set fetched for a radius search,
	// which is filtered and paginated in-process.
	GeoFetchLimit int
}

// DefaultSearchConfig returns the production defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		SeuilBasPrix:        5000,
		DistanceParDefautKm: 10,
		LimiteParDefaut:     10,
		LimiteMax:           100,
		GeoFetchLimit:       500,
	}
}

// SearchParams are the raw client-supplied query parameters. Pointer fields
// distinguish "absent" from zero values.
type SearchParams struct {
	Page  int
	Limit int

	CategorieID *uuid.UUID
	Ville       string
	MotCle      string

	RemunerationMin *float64
	RemunerationMax *float64

	Longitude     *float64
	Latitude      *float64
	DistanceMaxKm *float64

	TriPar   string
	OrdreTri string // "asc" or "desc"
}

// SortSpec is a whitelisted sort instruction for the non-geo path.
type SortSpec struct {
	Champ string
	Desc  bool
}

// Sortable fields for triPar. Anything else falls back to the default.
const (
	SortCreatedAt    = "createdAt"
	SortRemuneration = "remuneration"
	SortNombreVues   = "nombreVues"
)

func sortableChamp(triPar string) (string, bool) {
	switch triPar {
	case SortCreatedAt, SortRemuneration, SortNombreVues:
		return triPar, true
	}
	return "", false
}

// GeoSearch is an activated radius search.
type GeoSearch struct {
	Center   GeoPoint
	RadiusKm float64
}

// EffectiveFilters is what the store actually receives: the client's
// requested filters merged with the tier-gating policy. Boosted-first
// ordering is implicit in every execution path and not represented here.
type EffectiveFilters struct {
	CategorieID *uuid.UUID
	Ville       string
	MotCle      string

	MontantMin *float64
	MontantMax *float64

	Geo  *GeoSearch
	Sort SortSpec
}

// Pagination is the normalized page/limit pair.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// NormalizePagination coerces invalid page/limit values to defaults rather
// than failing.
func NormalizePagination(params SearchParams, cfg SearchConfig) Pagination {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = cfg.LimiteParDefaut
	}
	if limit > cfg.LimiteMax {
		limit = cfg.LimiteMax
	}
	return Pagination{Page: page, Limit: limit}
}

// ResolveEffectiveFilters applies the tier-gating policy to the requested
// filters. It is pure: degraded or refused options are reported as warning
// strings for the caller to log, never as errors.
//
// Policy:
//  1. authenticated free-tier workers are hard-capped at cfg.SeuilBasPrix;
//     a client-supplied max is intersected with the cap, the cap always
//     winning as upper bound;
//  2. premium requesters (either role) gain remuneration min/max and
//     geo-radius search;
//  3. everyone else keeps the base filters only.
func ResolveEffectiveFilters(requester RequesterContext, params SearchParams, cfg SearchConfig) (EffectiveFilters, []string) {
	var warnings []string

	eff := EffectiveFilters{
		CategorieID: params.CategorieID,
		Ville:       strings.TrimSpace(params.Ville),
		MotCle:      strings.TrimSpace(params.MotCle),
		Sort:        SortSpec{Champ: SortCreatedAt, Desc: true},
	}

	premium := requester.EstPremium()

	if premium {
		eff.MontantMin = params.RemunerationMin
		eff.MontantMax = params.RemunerationMax
	} else if params.RemunerationMin != nil || params.RemunerationMax != nil {
		warnings = append(warnings, "remuneration range filters require a premium subscription, ignored")
	}

	if requester.estTravailleurGratuit() {
		cap := cfg.SeuilBasPrix
		if eff.MontantMax == nil || *eff.MontantMax > cap {
			eff.MontantMax = &cap
		}
	}

	if params.Longitude != nil || params.Latitude != nil {
		switch {
		case !premium:
			warnings = append(warnings, "geo search requires a premium subscription, ignored")
		case params.Longitude == nil || params.Latitude == nil:
			warnings = append(warnings, "geo search needs both longitude and latitude, ignored")
		default:
			center := GeoPoint{Longitude: *params.Longitude, Latitude: *params.Latitude}
			radius := cfg.DistanceParDefautKm
			if params.DistanceMaxKm != nil {
				radius = *params.DistanceMaxKm
			}
			if !ValidGeoPoint(center) || radius <= 0 {
				warnings = append(warnings, fmt.Sprintf(
					"invalid geo parameters (longitude=%v latitude=%v distanceMaxKm=%v), falling back to non-geo search",
					center.Longitude, center.Latitude, radius))
			} else {
				eff.Geo = &GeoSearch{Center: center, RadiusKm: radius}
			}
		}
	}

	// Requested sort keys are ignored while a geo search is active so the
	// nearest-first ordering is never contradicted.
	if eff.Geo == nil {
		if champ, ok := sortableChamp(params.TriPar); ok {
			eff.Sort = SortSpec{Champ: champ, Desc: params.OrdreTri != "asc"}
		}
	}

	return eff, warnings
}
