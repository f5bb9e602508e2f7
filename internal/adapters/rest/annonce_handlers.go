package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AnnonceHandler struct {
	searchUC usecases_port.SearchAnnoncesUseCase
	getUC    usecases_port.GetAnnonceUseCase
	createUC usecases_port.CreateAnnonceUseCase
	updateUC usecases_port.UpdateAnnonceUseCase
	deleteUC usecases_port.DeleteAnnonceUseCase
	myUC     usecases_port.MyAnnoncesUseCase
}

func NewAnnonceHandler(
	searchUC usecases_port.SearchAnnoncesUseCase,
	getUC usecases_port.GetAnnonceUseCase,
	createUC usecases_port.CreateAnnonceUseCase,
	updateUC usecases_port.UpdateAnnonceUseCase,
	deleteUC usecases_port.DeleteAnnonceUseCase,
	myUC usecases_port.MyAnnoncesUseCase,
) *AnnonceHandler {
	return &AnnonceHandler{
		searchUC: searchUC,
		getUC:    getUC,
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		myUC:     myUC,
	}
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case domain.IsForbidden(err):
		WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrAnnonceNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "Erreur interne du serveur.")
	}
}

// SearchAnnonces handles GET /api/v1/annonces
func (h *AnnonceHandler) SearchAnnonces(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	requester := contextkeys.RequesterFromContext(r.Context())
	query := r.URL.Query()

	params := domain.SearchParams{
		Page:            parseInt(query, "page"),
		Limit:           parseInt(query, "limit"),
		Ville:           parseString(query, "ville"),
		MotCle:          parseString(query, "motCle"),
		RemunerationMin: parseFloat(query, "remunerationMin"),
		RemunerationMax: parseFloat(query, "remunerationMax"),
		Longitude:       parseFloat(query, "longitude"),
		Latitude:        parseFloat(query, "latitude"),
		DistanceMaxKm:   parseFloat(query, "distanceMaxKm"),
		TriPar:          parseString(query, "triPar"),
		OrdreTri:        parseString(query, "ordreTri"),
	}
	if params.DistanceMaxKm == nil {
		// Alias kept for clients using the API-gateway parameter name.
		params.DistanceMaxKm = parseFloat(query, "maxDistanceKm")
	}
	if s := query.Get("categorieId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "categorieId invalide.")
			return
		}
		params.CategorieID = &id
	}

	handlerLogger := logger.WithFields(port.Fields{"handler": "SearchAnnonces"})

	result, err := h.searchUC.Execute(r.Context(), params, requester)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		writeDomainError(w, err)
		return
	}

	handlerLogger.Info("Annonces found", port.Fields{
		"total":         result.TotalAnnonces,
		"items_on_page": len(result.Annonces),
	})
	RespondWithJSON(w, http.StatusOK, newPaginatedAnnoncesResponse(result))
}

// GetAnnonce handles GET /api/v1/annonces/{annonceID}
func (h *AnnonceHandler) GetAnnonce(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	requester := contextkeys.RequesterFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "annonceID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Identifiant d'annonce invalide.")
		return
	}

	card, err := h.getUC.Execute(r.Context(), id, requester)
	if err != nil {
		if !domain.IsForbidden(err) && !errors.Is(err, domain.ErrAnnonceNotFound) {
			logger.Error("Failed to get annonce", err, port.Fields{"annonce_id": id.String()})
		}
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, AnnonceResponse{Success: true, Annonce: card})
}

func decodeAnnonceInput(r *http.Request) (domain.AnnonceInput, error) {
	var input domain.AnnonceInput
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return input, domain.NewValidationError("Corps de requête illisible.")
	}
	if err := contracts.ValidateAnnoncePayload(body); err != nil {
		return input, domain.NewValidationError(err.Error())
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return input, domain.NewValidationError("JSON invalide.")
	}
	return input, nil
}

// CreateAnnonce handles POST /api/v1/annonces
func (h *AnnonceHandler) CreateAnnonce(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	requester := contextkeys.RequesterFromContext(r.Context())

	input, err := decodeAnnonceInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	annonce, err := h.createUC.Execute(r.Context(), input, requester)
	if err != nil {
		if !domain.IsValidation(err) && !domain.IsForbidden(err) {
			logger.Error("Failed to create annonce", err, nil)
		}
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, AnnonceResponse{Success: true, Annonce: annonce})
}

// UpdateAnnonce handles PUT /api/v1/annonces/{annonceID}
func (h *AnnonceHandler) UpdateAnnonce(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	requester := contextkeys.RequesterFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "annonceID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Identifiant d'annonce invalide.")
		return
	}

	input, err := decodeAnnonceInput(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	annonce, err := h.updateUC.Execute(r.Context(), id, input, requester)
	if err != nil {
		if !domain.IsValidation(err) && !domain.IsForbidden(err) && !errors.Is(err, domain.ErrAnnonceNotFound) {
			logger.Error("Failed to update annonce", err, port.Fields{"annonce_id": id.String()})
		}
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, AnnonceResponse{Success: true, Annonce: annonce})
}

// DeleteAnnonce handles DELETE /api/v1/annonces/{annonceID}
func (h *AnnonceHandler) DeleteAnnonce(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	requester := contextkeys.RequesterFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "annonceID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Identifiant d'annonce invalide.")
		return
	}

	if err := h.deleteUC.Execute(r.Context(), id, requester); err != nil {
		if !domain.IsForbidden(err) && !errors.Is(err, domain.ErrAnnonceNotFound) {
			logger.Error("Failed to delete annonce", err, port.Fields{"annonce_id": id.String()})
		}
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Annonce supprimée."})
}

// MyAnnonces handles GET /api/v1/annonces/mes-annonces
func (h *AnnonceHandler) MyAnnonces(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context())
	requester := contextkeys.RequesterFromContext(r.Context())
	query := r.URL.Query()

	params := usecases_port.MyAnnoncesParams{
		Page:   parseInt(query, "page"),
		Limit:  parseInt(query, "limit"),
		Statut: parseString(query, "statut"),
		MotCle: parseString(query, "motCle"),
	}

	result, err := h.myUC.Execute(r.Context(), params, requester)
	if err != nil {
		if !domain.IsForbidden(err) {
			logger.Error("Failed to list own annonces", err, nil)
		}
		writeDomainError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, newPaginatedAnnoncesResponse(result))
}
