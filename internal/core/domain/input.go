package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocalisationInput is the client-supplied location. The point, if present,
// comes from a front end that already geocoded; otherwise the service
// geocodes the textual address best-effort.
type LocalisationInput struct {
	AdresseTextuelle string    `json:"adresseTextuelle"`
	Ville            string    `json:"ville"`
	Quartier         string    `json:"quartier"`
	Point            *GeoPoint `json:"point"`
}

// AnnonceInput is the create/update payload after jsonschema validation.
type AnnonceInput struct {
	Titre               string            `json:"titre"`
	Description         string            `json:"description"`
	CategorieID         uuid.UUID         `json:"categorieId"`
	TypeContrat         string            `json:"typeContrat"`
	Localisation        LocalisationInput `json:"localisation"`
	Remuneration        Remuneration      `json:"remuneration"`
	DateDebutSouhaitee  *time.Time        `json:"dateDebutSouhaitee"`
	DureeMission        *DureeMission     `json:"dureeMission"`
	CompetencesRequises []string          `json:"competencesRequises"`
	EstUrgent           bool              `json:"estUrgent"`
}

// AdresseComplete builds the string sent to the geocoder: the full textual
// address when given, else "quartier ville, Cameroun".
func (in LocalisationInput) AdresseComplete() string {
	if in.AdresseTextuelle != "" {
		return in.AdresseTextuelle
	}
	if in.Ville == "" {
		return ""
	}
	adresse := in.Ville
	if in.Quartier != "" {
		adresse = in.Quartier + " " + in.Ville
	}
	return adresse + ", Cameroun"
}
