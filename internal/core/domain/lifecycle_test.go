package domain_test

import (
	"testing"
	"time"

	"listing-service/internal/core/domain"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestComputeDateExpiration(t *testing.T) {
	now := date(2026, 3, 1)
	got := domain.ComputeDateExpiration(now, 30)
	want := now.Add(30 * 24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("ComputeDateExpiration = %v, want %v", got, want)
	}
}

func TestComputeDateFinPrestation_Units(t *testing.T) {
	debut := date(2026, 3, 1)
	cases := []struct {
		unite  string
		valeur int
		want   time.Time
	}{
		// Every unit carries the historical one-day surplus.
		{"jours", 10, date(2026, 3, 12)},
		{"semaines", 2, date(2026, 3, 16)},
		{"mois", 1, date(2026, 4, 2)},
		{"annees", 1, date(2027, 3, 2)},
	}
	for _, c := range cases {
		got := domain.ComputeDateFinPrestation(&debut, &domain.DureeMission{Valeur: c.valeur, Unite: c.unite})
		if got == nil {
			t.Errorf("%s: got nil", c.unite)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("%d %s from %v = %v, want %v", c.valeur, c.unite, debut, *got, c.want)
		}
	}
}

func TestComputeDateFinPrestation_MissingInputs(t *testing.T) {
	debut := date(2026, 3, 1)
	duree := &domain.DureeMission{Valeur: 5, Unite: "jours"}

	if got := domain.ComputeDateFinPrestation(nil, duree); got != nil {
		t.Errorf("nil debut: got %v, want nil", got)
	}
	if got := domain.ComputeDateFinPrestation(&debut, nil); got != nil {
		t.Errorf("nil duree: got %v, want nil", got)
	}
	if got := domain.ComputeDateFinPrestation(&debut, &domain.DureeMission{Valeur: 0, Unite: "jours"}); got != nil {
		t.Errorf("zero valeur: got %v, want nil", got)
	}
	if got := domain.ComputeDateFinPrestation(&debut, &domain.DureeMission{Valeur: 2, Unite: "quinzaines"}); got != nil {
		t.Errorf("unknown unit: got %v, want nil", got)
	}
}

func TestAnnonce_EstVisible(t *testing.T) {
	now := date(2026, 3, 1)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	cases := []struct {
		name       string
		statut     string
		expiration time.Time
		want       bool
	}{
		{"active and not expired", domain.StatutActive, future, true},
		{"active but past expiration", domain.StatutActive, past, false},
		{"expired statut", domain.StatutExpiree, future, false},
		{"soft-deleted", domain.StatutSupprimee, future, false},
		{"awaiting moderation", domain.StatutModeration, future, false},
	}
	for _, c := range cases {
		a := domain.Annonce{Statut: c.statut, DateExpiration: c.expiration}
		if a.EstVisible(now) != c.want {
			t.Errorf("%s: EstVisible = %v, want %v", c.name, a.EstVisible(now), c.want)
		}
	}
}

func TestValidPeriode(t *testing.T) {
	for _, p := range []string{"heure", "jour", "semaine", "mois", "prestation"} {
		if !domain.ValidPeriode(p) {
			t.Errorf("ValidPeriode(%q) = false, want true", p)
		}
	}
	for _, p := range []string{"", "annee", "MOIS"} {
		if domain.ValidPeriode(p) {
			t.Errorf("ValidPeriode(%q) = true, want false", p)
		}
	}
}
