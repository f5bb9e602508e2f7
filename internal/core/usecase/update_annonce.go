package usecase

import (
	"context"
	"fmt"
	"time"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

// UpdateAnnonceUseCase replaces the mutable fields of an existing listing.
// Only the owning employer may update; statut, view counter and expiration
// date are never touched here.
type UpdateAnnonceUseCase struct {
	storage       port.AnnonceStoragePort
	geocoder      port.GeocoderPort
	notifications port.NotificationQueuePort
	now           func() time.Time
}

func NewUpdateAnnonceUseCase(
	storage port.AnnonceStoragePort,
	geocoder port.GeocoderPort,
	notifications port.NotificationQueuePort,
) *UpdateAnnonceUseCase {
	return &UpdateAnnonceUseCase{
		storage:       storage,
		geocoder:      geocoder,
		notifications: notifications,
		now:           time.Now,
	}
}

func (uc *UpdateAnnonceUseCase) Execute(ctx context.Context, id uuid.UUID, input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "UpdateAnnonce",
		"annonce_id": id.String(),
	})

	if !requester.EstAuthentifie() {
		return nil, domain.NewForbiddenError("Authentification requise pour modifier une annonce.")
	}

	annonce, err := uc.storage.GetByIDForOwner(ctx, id)
	if err != nil {
		if err != domain.ErrAnnonceNotFound {
			ucLogger.Error("Failed to load annonce", err, nil)
		}
		return nil, err
	}
	if annonce.EmployeurID != *requester.UserID {
		return nil, domain.NewForbiddenError("Vous n'êtes pas autorisé à modifier cette annonce.")
	}

	if input.Remuneration.Montant < 0 {
		return nil, domain.NewValidationError("Le montant de la rémunération doit être positif ou nul.")
	}
	if input.Remuneration.Periode != "" && !domain.ValidPeriode(input.Remuneration.Periode) {
		return nil, domain.NewValidationError("Période de rémunération invalide.")
	}

	if input.CategorieID != annonce.CategorieID {
		exists, err := uc.storage.CategorieExists(ctx, input.CategorieID)
		if err != nil {
			ucLogger.Error("Failed to check category", err, nil)
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return nil, domain.NewValidationError(domain.ErrCategorieInconnue.Error())
		}
	}

	locationChanged := input.Localisation.AdresseTextuelle != annonce.Localisation.AdresseTextuelle ||
		input.Localisation.Ville != annonce.Localisation.Ville ||
		input.Localisation.Quartier != annonce.Localisation.Quartier

	annonce.Titre = input.Titre
	annonce.Description = input.Description
	annonce.CategorieID = input.CategorieID
	annonce.TypeContrat = input.TypeContrat
	annonce.Localisation.AdresseTextuelle = input.Localisation.AdresseTextuelle
	annonce.Localisation.Ville = input.Localisation.Ville
	annonce.Localisation.Quartier = input.Localisation.Quartier
	annonce.Remuneration = input.Remuneration
	annonce.DateDebutSouhaitee = input.DateDebutSouhaitee
	annonce.DureeMission = input.DureeMission
	annonce.CompetencesRequises = input.CompetencesRequises
	annonce.EstUrgent = input.EstUrgent
	annonce.UpdatedAt = uc.now()

	if annonce.Remuneration.Devise == "" {
		annonce.Remuneration.Devise = domain.DeviseParDefaut
	}
	if annonce.Remuneration.Periode == "" {
		annonce.Remuneration.Periode = domain.PeriodePrestation
	}

	// Re-geocode only when the address actually changed, or when the client
	// now supplies coordinates for a listing that had none.
	if locationChanged {
		annonce.Localisation.Point = uc.resolvePoint(ctx, ucLogger, input)
	} else if annonce.Localisation.Point == nil {
		if p := input.Localisation.Point; p != nil && domain.ValidGeoPoint(*p) {
			annonce.Localisation.Point = p
		}
	}

	annonce.DateFinPrestationEstimee = domain.ComputeDateFinPrestation(annonce.DateDebutSouhaitee, annonce.DureeMission)

	if err := uc.storage.Update(ctx, annonce); err != nil {
		ucLogger.Error("Failed to update annonce", err, nil)
		return nil, fmt.Errorf("failed to update annonce: %w", err)
	}

	uc.notify(ctx, ucLogger, port.Notification{
		DestinataireID: &annonce.EmployeurID,
		Type:           constants.NotifAnnonceModifiee,
		Message:        fmt.Sprintf("Votre annonce %q a été mise à jour.", annonce.Titre),
		Lien:           "/mes-annonces/" + annonce.ID.String(),
		Metadata:       map[string]interface{}{"nomAnnonce": annonce.Titre},
	})

	ucLogger.Info("Annonce updated", nil)
	return annonce, nil
}

func (uc *UpdateAnnonceUseCase) resolvePoint(ctx context.Context, logger port.LoggerPort, input domain.AnnonceInput) *domain.GeoPoint {
	adresse := input.Localisation.AdresseComplete()
	if adresse != "" {
		point, err := uc.geocoder.GeocodeAddress(ctx, adresse)
		if err != nil {
			logger.Warn("Geocoding failed, keeping annonce without geo point", port.Fields{
				"adresse": adresse,
				"error":   err.Error(),
			})
		} else if point != nil {
			return point
		} else {
			logger.Warn("Geocoding returned no result", port.Fields{"adresse": adresse})
		}
	}
	if p := input.Localisation.Point; p != nil && domain.ValidGeoPoint(*p) {
		return p
	}
	return nil
}

func (uc *UpdateAnnonceUseCase) notify(ctx context.Context, logger port.LoggerPort, n port.Notification) {
	if err := uc.notifications.PublishNotification(ctx, n); err != nil {
		logger.Warn("Failed to publish notification", port.Fields{
			"type":  n.Type,
			"error": err.Error(),
		})
	}
}
