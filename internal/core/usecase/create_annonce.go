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

// CreateAnnonceUseCase publishes a new listing for an employer: category
// check, free-tier posting limit, best-effort geocoding, derived dates, then
// persistence and notification events.
type CreateAnnonceUseCase struct {
	storage       port.AnnonceStoragePort
	geocoder      port.GeocoderPort
	notifications port.NotificationQueuePort
	cfg           domain.PublicationConfig
	now           func() time.Time
}

func NewCreateAnnonceUseCase(
	storage port.AnnonceStoragePort,
	geocoder port.GeocoderPort,
	notifications port.NotificationQueuePort,
	cfg domain.PublicationConfig,
) *CreateAnnonceUseCase {
	return &CreateAnnonceUseCase{
		storage:       storage,
		geocoder:      geocoder,
		notifications: notifications,
		cfg:           cfg,
		now:           time.Now,
	}
}

func (uc *CreateAnnonceUseCase) Execute(ctx context.Context, input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CreateAnnonce",
		"titre":    input.Titre,
	})

	if !requester.EstAuthentifie() || requester.Role != domain.RoleEmployeur {
		return nil, domain.NewForbiddenError("Seuls les employeurs peuvent publier une annonce.")
	}
	employeurID := *requester.UserID

	if input.Remuneration.Montant < 0 {
		return nil, domain.NewValidationError("Le montant de la rémunération doit être positif ou nul.")
	}
	if input.Remuneration.Periode != "" && !domain.ValidPeriode(input.Remuneration.Periode) {
		return nil, domain.NewValidationError("Période de rémunération invalide.")
	}

	exists, err := uc.storage.CategorieExists(ctx, input.CategorieID)
	if err != nil {
		ucLogger.Error("Failed to check category", err, nil)
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, domain.NewValidationError(domain.ErrCategorieInconnue.Error())
	}

	now := uc.now()

	if requester.TypeAbonnement == domain.AbonnementGratuit {
		actives, err := uc.storage.CountActivesByEmployeur(ctx, employeurID, now)
		if err != nil {
			ucLogger.Error("Failed to count active annonces", err, nil)
			return nil, fmt.Errorf("failed to count active annonces: %w", err)
		}
		if actives >= uc.cfg.LimiteAnnoncesGratuit {
			return nil, domain.NewForbiddenError(fmt.Sprintf(
				"Vous avez atteint la limite de %d annonces actives pour les comptes gratuits. Passez au premium pour publier plus d'annonces.",
				uc.cfg.LimiteAnnoncesGratuit))
		}
	}

	annonce := &domain.Annonce{
		ID:          uuid.New(),
		Titre:       input.Titre,
		Description: input.Description,
		CategorieID: input.CategorieID,
		EmployeurID: employeurID,
		TypeContrat: input.TypeContrat,
		Localisation: domain.Localisation{
			AdresseTextuelle: input.Localisation.AdresseTextuelle,
			Ville:            input.Localisation.Ville,
			Quartier:         input.Localisation.Quartier,
		},
		Remuneration:        input.Remuneration,
		DateDebutSouhaitee:  input.DateDebutSouhaitee,
		DureeMission:        input.DureeMission,
		CompetencesRequises: input.CompetencesRequises,
		EstUrgent:           input.EstUrgent,
		Statut:              domain.StatutActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if annonce.Remuneration.Devise == "" {
		annonce.Remuneration.Devise = domain.DeviseParDefaut
	}
	if annonce.Remuneration.Periode == "" {
		annonce.Remuneration.Periode = domain.PeriodePrestation
	}

	annonce.Localisation.Point = uc.resolvePoint(ctx, ucLogger, input)

	validityDays := uc.cfg.DureeValiditeJours
	// A premium employer's listing is boosted and stays up longer.
	if requester.TypeAbonnement == "premium_employeur" {
		annonce.EstPremiumAnnonce = true
		validityDays = uc.cfg.DureeValiditePremiumJours
	}
	annonce.DateExpiration = domain.ComputeDateExpiration(now, validityDays)
	annonce.DateFinPrestationEstimee = domain.ComputeDateFinPrestation(annonce.DateDebutSouhaitee, annonce.DureeMission)

	if err := uc.storage.Save(ctx, annonce); err != nil {
		ucLogger.Error("Failed to save annonce", err, nil)
		return nil, fmt.Errorf("failed to save annonce: %w", err)
	}

	uc.notify(ctx, ucLogger, port.Notification{
		DestinataireID: &employeurID,
		Type:           constants.NotifAnnonceCreee,
		Message:        fmt.Sprintf("Votre annonce %q a été créée avec succès et est maintenant visible.", annonce.Titre),
		Lien:           "/mes-annonces/" + annonce.ID.String(),
		Metadata:       map[string]interface{}{"nomAnnonce": annonce.Titre},
	})
	uc.notify(ctx, ucLogger, port.Notification{
		Type:     constants.NotifAnnonceAValider,
		Message:  fmt.Sprintf("Une nouvelle annonce %q est en attente de traitement.", annonce.Titre),
		Lien:     "/mes-annonces/" + annonce.ID.String(),
		Metadata: map[string]interface{}{"nomAnnonce": annonce.Titre},
	})

	ucLogger.Info("Annonce created", port.Fields{"annonce_id": annonce.ID.String()})
	return annonce, nil
}

// resolvePoint geocodes the textual address when present, falling back to
// client-supplied coordinates. Geocoding failure never blocks creation; the
// listing is then simply excluded from radius searches.
func (uc *CreateAnnonceUseCase) resolvePoint(ctx context.Context, logger port.LoggerPort, input domain.AnnonceInput) *domain.GeoPoint {
	adresse := input.Localisation.AdresseComplete()
	if adresse != "" {
		point, err := uc.geocoder.GeocodeAddress(ctx, adresse)
		if err != nil {
			logger.Warn("Geocoding failed, annonce will have no geo point", port.Fields{
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
	if adresse == "" {
		logger.Warn("No address or coordinates supplied, geolocation unavailable for this annonce", nil)
	}
	return nil
}

// notify publishes best-effort: broker trouble is logged, never propagated.
func (uc *CreateAnnonceUseCase) notify(ctx context.Context, logger port.LoggerPort, n port.Notification) {
	if err := uc.notifications.PublishNotification(ctx, n); err != nil {
		logger.Warn("Failed to publish notification", port.Fields{
			"type":  n.Type,
			"error": err.Error(),
		})
	}
}
