package rest

import "listing-service/internal/core/domain"

// PaginatedAnnoncesResponse is the search/list response envelope.
type PaginatedAnnoncesResponse struct {
	Success       bool                 `json:"success"`
	Annonces      []domain.AnnonceCard `json:"annonces"`
	TotalAnnonces int                  `json:"totalAnnonces"`
	TotalPages    int                  `json:"totalPages"`
	CurrentPage   int                  `json:"currentPage"`
}

func newPaginatedAnnoncesResponse(result *domain.PaginatedAnnonces) PaginatedAnnoncesResponse {
	annonces := result.Annonces
	if annonces == nil {
		annonces = []domain.AnnonceCard{}
	}
	return PaginatedAnnoncesResponse{
		Success:       true,
		Annonces:      annonces,
		TotalAnnonces: result.TotalAnnonces,
		TotalPages:    result.TotalPages,
		CurrentPage:   result.CurrentPage,
	}
}

// AnnonceResponse wraps a single listing.
type AnnonceResponse struct {
	Success bool        `json:"success"`
	Annonce interface{} `json:"annonce"`
}

// MessageResponse is used for deletes and other acknowledgements.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
