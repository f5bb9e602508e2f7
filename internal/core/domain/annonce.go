package domain

import (
	"time"

	"github.com/google/uuid"
)

// Statut values an annonce can be in. Only StatutActive listings with a
// future expiration date are visible to search.
const (
	StatutActive     = "active"
	StatutInactive   = "inactive"
	StatutExpiree    = "expiree"
	StatutSupprimee  = "supprimee"
	StatutModeration = "en_attente_moderation"
)

// Periode values accepted for a remuneration.
const (
	PeriodeHeure      = "heure"
	PeriodeJour       = "jour"
	PeriodeSemaine    = "semaine"
	PeriodeMois       = "mois"
	PeriodePrestation = "prestation"
)

const DeviseParDefaut = "FCFA"

// ValidPeriode reports whether p is one of the enumerated remuneration periods.
func ValidPeriode(p string) bool {
	switch p {
	case PeriodeHeure, PeriodeJour, PeriodeSemaine, PeriodeMois, PeriodePrestation:
		return true
	}
	return false
}

// GeoPoint is a [longitude, latitude] pair, longitude first.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Localisation carries the free-text address plus the optional geocoded
// point. Geohash is derived from Point at save time and is empty when the
// point is absent.
type Localisation struct {
	AdresseTextuelle string    `json:"adresseTextuelle,omitempty"`
	Ville            string    `json:"ville"`
	Quartier         string    `json:"quartier,omitempty"`
	Point            *GeoPoint `json:"point,omitempty"`
	Geohash          string    `json:"-"`
}

type Remuneration struct {
	Montant float64 `json:"montant"`
	Devise  string  `json:"devise"`
	Periode string  `json:"periode"`
}

// DureeMission is the expected mission duration as entered by the employer.
type DureeMission struct {
	Valeur int    `json:"valeur"`
	Unite  string `json:"unite"` // jours, semaines, mois, annees
}

// Annonce is a job listing posted by an employer.
type Annonce struct {
	ID                       uuid.UUID     `json:"id"`
	Titre                    string        `json:"titre"`
	Description              string        `json:"description"`
	CategorieID              uuid.UUID     `json:"categorieId"`
	EmployeurID              uuid.UUID     `json:"employeurId"`
	TypeContrat              string        `json:"typeContrat,omitempty"`
	Localisation             Localisation  `json:"localisation"`
	Remuneration             Remuneration  `json:"remuneration"`
	DateDebutSouhaitee       *time.Time    `json:"dateDebutSouhaitee,omitempty"`
	DureeMission             *DureeMission `json:"dureeMission,omitempty"`
	DateFinPrestationEstimee *time.Time    `json:"dateFinPrestationEstimee,omitempty"`
	CompetencesRequises      []string      `json:"competencesRequises"`
	EstUrgent                bool          `json:"estUrgent"`
	EstPremiumAnnonce        bool          `json:"estPremiumAnnonce"`
	Statut                   string        `json:"statut"`
	DateExpiration           time.Time     `json:"dateExpiration"`
	NombreVues               int           `json:"nombreVues"`
	CreatedAt                time.Time     `json:"createdAt"`
	UpdatedAt                time.Time     `json:"updatedAt"`
}

// EstVisible reports whether the annonce may appear in search results at
// the given instant.
func (a *Annonce) EstVisible(now time.Time) bool {
	return a.Statut == StatutActive && now.Before(a.DateExpiration)
}

// AnnonceCard is the listing projection returned by search: the annonce
// itself plus the populated category name and employer display info.
// DistanceKm is set only when the result comes from a geo-search.
type AnnonceCard struct {
	Annonce
	CategorieNom        string   `json:"categorieNom"`
	EmployeurNom        string   `json:"employeurNom"`
	EmployeurPrenom     string   `json:"employeurPrenom,omitempty"`
	EmployeurEntreprise string   `json:"nomEntreprise,omitempty"`
	DistanceKm          *float64 `json:"distanceKm,omitempty"`
}

// PaginatedAnnonces is the search engine result page.
type PaginatedAnnonces struct {
	Annonces      []AnnonceCard
	TotalAnnonces int
	TotalPages    int
	CurrentPage   int
}
