package domain

import "github.com/google/uuid"

// Categorie is the replicated category read model; the category service is
// the source of truth.
type Categorie struct {
	ID  uuid.UUID `json:"id"`
	Nom string    `json:"nom"`
}

// Employeur is the replicated employer display profile used to populate
// result cards.
type Employeur struct {
	ID            uuid.UUID `json:"id"`
	Nom           string    `json:"nom"`
	Prenom        string    `json:"prenom,omitempty"`
	NomEntreprise string    `json:"nomEntreprise,omitempty"`
}
