package domain_test

import (
	"testing"

	"github.com/google/uuid"

	"listing-service/internal/core/domain"
)

func ptrF(v float64) *float64 { return &v }

func requester(role, abonnement string) domain.RequesterContext {
	id := uuid.New()
	return domain.RequesterContext{UserID: &id, Role: role, TypeAbonnement: abonnement}
}

// ── NormalizePagination ───────────────────────────────────────────────────

func TestNormalizePagination_Defaults(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	cases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"zero values", 0, 0, 1, 10},
		{"negative page", -3, 20, 1, 20},
		{"limit above max", 2, 1000, 2, 100},
		{"valid passthrough", 4, 25, 4, 25},
	}
	for _, c := range cases {
		got := domain.NormalizePagination(domain.SearchParams{Page: c.page, Limit: c.limit}, cfg)
		if got.Page != c.wantPage || got.Limit != c.wantLimit {
			t.Errorf("%s: got page=%d limit=%d, want page=%d limit=%d",
				c.name, got.Page, got.Limit, c.wantPage, c.wantLimit)
		}
	}
}

func TestPagination_Offset(t *testing.T) {
	p := domain.Pagination{Page: 3, Limit: 20}
	if p.Offset() != 40 {
		t.Errorf("Offset() = %d, want 40", p.Offset())
	}
}

// ── ResolveEffectiveFilters: free-tier worker price cap ───────────────────

func TestResolveEffectiveFilters_FreeWorkerCapped(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	eff, _ := domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "gratuit"), domain.SearchParams{}, cfg)
	if eff.MontantMax == nil || *eff.MontantMax != cfg.SeuilBasPrix {
		t.Fatalf("free worker must be capped at %v, got %v", cfg.SeuilBasPrix, eff.MontantMax)
	}
}

func TestResolveEffectiveFilters_FreeWorkerRangeIgnoredButStillCapped(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	params := domain.SearchParams{RemunerationMax: ptrF(50000)}
	eff, warnings := domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "gratuit"), params, cfg)
	if eff.MontantMax == nil || *eff.MontantMax != cfg.SeuilBasPrix {
		t.Errorf("cap must win over requested max, got %v", eff.MontantMax)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the ignored remuneration filter")
	}
}

func TestResolveEffectiveFilters_PremiumWorkerNotCapped(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	params := domain.SearchParams{RemunerationMin: ptrF(10000), RemunerationMax: ptrF(80000)}
	eff, warnings := domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "premium_travailleur"), params, cfg)
	if eff.MontantMin == nil || *eff.MontantMin != 10000 {
		t.Errorf("premium min lost: %v", eff.MontantMin)
	}
	if eff.MontantMax == nil || *eff.MontantMax != 80000 {
		t.Errorf("premium max lost: %v", eff.MontantMax)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestResolveEffectiveFilters_AnonymousNotCapped(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	eff, _ := domain.ResolveEffectiveFilters(domain.RequesterContext{}, domain.SearchParams{}, cfg)
	if eff.MontantMax != nil {
		t.Errorf("anonymous requester must not be price-capped, got %v", *eff.MontantMax)
	}
}

func TestResolveEffectiveFilters_FreeEmployeurNotCapped(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	eff, _ := domain.ResolveEffectiveFilters(requester(domain.RoleEmployeur, "gratuit"), domain.SearchParams{}, cfg)
	if eff.MontantMax != nil {
		t.Errorf("free employer must not be price-capped, got %v", *eff.MontantMax)
	}
}

// ── ResolveEffectiveFilters: geo gating ───────────────────────────────────

func TestResolveEffectiveFilters_GeoRequiresPremium(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	params := domain.SearchParams{Longitude: ptrF(11.52), Latitude: ptrF(3.87), DistanceMaxKm: ptrF(5)}

	eff, warnings := domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "gratuit"), params, cfg)
	if eff.Geo != nil {
		t.Error("free worker must not get a geo search")
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the refused geo search")
	}

	eff, _ = domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "premium_travailleur"), params, cfg)
	if eff.Geo == nil {
		t.Fatal("premium worker must get a geo search")
	}
	if eff.Geo.RadiusKm != 5 || eff.Geo.Center.Longitude != 11.52 {
		t.Errorf("geo search mangled: %+v", eff.Geo)
	}
}

func TestResolveEffectiveFilters_GeoDefaultRadius(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	params := domain.SearchParams{Longitude: ptrF(11.52), Latitude: ptrF(3.87)}
	eff, _ := domain.ResolveEffectiveFilters(requester(domain.RoleEmployeur, "premium_employeur"), params, cfg)
	if eff.Geo == nil || eff.Geo.RadiusKm != cfg.DistanceParDefautKm {
		t.Fatalf("omitted radius must default to %v, got %+v", cfg.DistanceParDefautKm, eff.Geo)
	}
}

func TestResolveEffectiveFilters_GeoHalfPairIgnored(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	params := domain.SearchParams{Longitude: ptrF(11.52)}
	eff, warnings := domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "premium_travailleur"), params, cfg)
	if eff.Geo != nil {
		t.Error("longitude without latitude must not activate a geo search")
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the half geo pair")
	}
}

func TestResolveEffectiveFilters_InvalidGeoFallsBack(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	params := domain.SearchParams{Longitude: ptrF(400), Latitude: ptrF(3.87), DistanceMaxKm: ptrF(5)}
	eff, warnings := domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "premium_travailleur"), params, cfg)
	if eff.Geo != nil {
		t.Error("out-of-range longitude must fall back to non-geo search")
	}
	if len(warnings) == 0 {
		t.Error("expected a warning for the invalid geo parameters")
	}
}

// ── ResolveEffectiveFilters: sorting ──────────────────────────────────────

func TestResolveEffectiveFilters_DefaultSort(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	eff, _ := domain.ResolveEffectiveFilters(domain.RequesterContext{}, domain.SearchParams{}, cfg)
	if eff.Sort.Champ != domain.SortCreatedAt || !eff.Sort.Desc {
		t.Errorf("default sort must be createdAt desc, got %+v", eff.Sort)
	}
}

func TestResolveEffectiveFilters_SortWhitelist(t *testing.T) {
	cfg := domain.DefaultSearchConfig()

	eff, _ := domain.ResolveEffectiveFilters(domain.RequesterContext{},
		domain.SearchParams{TriPar: domain.SortRemuneration, OrdreTri: "asc"}, cfg)
	if eff.Sort.Champ != domain.SortRemuneration || eff.Sort.Desc {
		t.Errorf("requested sort lost: %+v", eff.Sort)
	}

	eff, _ = domain.ResolveEffectiveFilters(domain.RequesterContext{},
		domain.SearchParams{TriPar: "employeur_id; DROP TABLE annonces"}, cfg)
	if eff.Sort.Champ != domain.SortCreatedAt {
		t.Errorf("non-whitelisted sort must fall back to default, got %+v", eff.Sort)
	}
}

func TestResolveEffectiveFilters_GeoOverridesRequestedSort(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	params := domain.SearchParams{
		Longitude: ptrF(11.52), Latitude: ptrF(3.87),
		TriPar: domain.SortRemuneration, OrdreTri: "asc",
	}
	eff, _ := domain.ResolveEffectiveFilters(requester(domain.RoleTravailleur, "premium_travailleur"), params, cfg)
	if eff.Geo == nil {
		t.Fatal("geo search expected")
	}
	if eff.Sort.Champ != domain.SortCreatedAt {
		t.Errorf("requested sort must be ignored while geo is active, got %+v", eff.Sort)
	}
}

// ── RequesterContext ──────────────────────────────────────────────────────

func TestRequesterContext_EstPremium(t *testing.T) {
	cases := []struct {
		abonnement string
		want       bool
	}{
		{"premium_travailleur", true},
		{"premium_employeur", true},
		{"gratuit", false},
		{"", false},
	}
	for _, c := range cases {
		r := requester(domain.RoleTravailleur, c.abonnement)
		if r.EstPremium() != c.want {
			t.Errorf("EstPremium(%q) = %v, want %v", c.abonnement, r.EstPremium(), c.want)
		}
	}
}
