package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"listing-service/internal/constants"
	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

func validInput() domain.AnnonceInput {
	return domain.AnnonceInput{
		Titre:       "Plombier pour fuite urgente",
		Description: "Réparation d'une fuite sous évier.",
		CategorieID: uuid.New(),
		Localisation: domain.LocalisationInput{
			Ville:    "Yaoundé",
			Quartier: "Bastos",
		},
		Remuneration: domain.Remuneration{Montant: 15000},
	}
}

func newCreateUC(storage *fakeStorage, geocoder *fakeGeocoder, notifier *fakeNotifier) *CreateAnnonceUseCase {
	return NewCreateAnnonceUseCase(storage, geocoder, notifier, domain.DefaultPublicationConfig())
}

func TestCreateAnnonce_OnlyEmployeurs(t *testing.T) {
	uc := newCreateUC(&fakeStorage{}, &fakeGeocoder{}, &fakeNotifier{})

	for _, r := range []domain.RequesterContext{{}, freeWorker(), premiumWorker()} {
		_, err := uc.Execute(context.Background(), validInput(), r)
		if !domain.IsForbidden(err) {
			t.Errorf("role %q abonnement %q: got %v, want ForbiddenError", r.Role, r.TypeAbonnement, err)
		}
	}
}

func TestCreateAnnonce_UnknownCategorie(t *testing.T) {
	storage := &fakeStorage{
		categorieExists: func(uuid.UUID) (bool, error) { return false, nil },
	}
	uc := newCreateUC(storage, &fakeGeocoder{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validInput(), freeEmployeur())
	if !domain.IsValidation(err) {
		t.Errorf("got %v, want a ValidationError for the unknown category", err)
	}
}

func TestCreateAnnonce_FreeTierLimit(t *testing.T) {
	storage := &fakeStorage{
		countActivesByEmployeur: func(uuid.UUID) (int, error) { return 3, nil },
	}
	uc := newCreateUC(storage, &fakeGeocoder{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validInput(), freeEmployeur())
	if !domain.IsForbidden(err) {
		t.Errorf("got %v, want ForbiddenError at the free posting limit", err)
	}
}

func TestCreateAnnonce_PremiumEmployeurSkipsLimit(t *testing.T) {
	storage := &fakeStorage{
		countActivesByEmployeur: func(uuid.UUID) (int, error) {
			t.Error("active count must not be checked for a premium employer")
			return 0, nil
		},
	}
	notifier := &fakeNotifier{}
	uc := newCreateUC(storage, &fakeGeocoder{}, notifier)

	annonce, err := uc.Execute(context.Background(), validInput(), premiumEmployeur())
	if err != nil {
		t.Fatal(err)
	}
	if !annonce.EstPremiumAnnonce {
		t.Error("premium employer's annonce must be boosted")
	}
}

func TestCreateAnnonce_ValidityByTier(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := domain.DefaultPublicationConfig()

	cases := []struct {
		name      string
		requester domain.RequesterContext
		wantDays  int
		boosted   bool
	}{
		{"free employer", freeEmployeur(), cfg.DureeValiditeJours, false},
		{"premium employer", premiumEmployeur(), cfg.DureeValiditePremiumJours, true},
	}
	for _, c := range cases {
		uc := newCreateUC(&fakeStorage{}, &fakeGeocoder{}, &fakeNotifier{})
		uc.now = func() time.Time { return now }

		annonce, err := uc.Execute(context.Background(), validInput(), c.requester)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		want := now.Add(time.Duration(c.wantDays) * 24 * time.Hour)
		if !annonce.DateExpiration.Equal(want) {
			t.Errorf("%s: expiration = %v, want %v", c.name, annonce.DateExpiration, want)
		}
		if annonce.EstPremiumAnnonce != c.boosted {
			t.Errorf("%s: EstPremiumAnnonce = %v, want %v", c.name, annonce.EstPremiumAnnonce, c.boosted)
		}
		if annonce.Statut != domain.StatutActive {
			t.Errorf("%s: statut = %q, want active", c.name, annonce.Statut)
		}
	}
}

func TestCreateAnnonce_GeocodeFailureNotBlocking(t *testing.T) {
	var saved *domain.Annonce
	storage := &fakeStorage{
		save: func(a *domain.Annonce) error { saved = a; return nil },
	}
	geocoder := &fakeGeocoder{err: errors.New("nominatim timeout")}
	uc := newCreateUC(storage, geocoder, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validInput(), freeEmployeur())
	if err != nil {
		t.Fatalf("geocoding failure must not block creation: %v", err)
	}
	if saved == nil {
		t.Fatal("annonce was not saved")
	}
	if saved.Localisation.Point != nil {
		t.Error("failed geocoding must leave the annonce without a point")
	}
}

func TestCreateAnnonce_GeocodedPointSaved(t *testing.T) {
	point := &domain.GeoPoint{Longitude: 11.502, Latitude: 3.848}
	var saved *domain.Annonce
	storage := &fakeStorage{
		save: func(a *domain.Annonce) error { saved = a; return nil },
	}
	uc := newCreateUC(storage, &fakeGeocoder{point: point}, &fakeNotifier{})

	if _, err := uc.Execute(context.Background(), validInput(), freeEmployeur()); err != nil {
		t.Fatal(err)
	}
	if saved.Localisation.Point == nil || *saved.Localisation.Point != *point {
		t.Errorf("saved point = %v, want %v", saved.Localisation.Point, point)
	}
}

func TestCreateAnnonce_ClientPointFallback(t *testing.T) {
	// No resolvable address, but the front end supplied coordinates.
	input := validInput()
	input.Localisation = domain.LocalisationInput{
		Point: &domain.GeoPoint{Longitude: 11.51, Latitude: 3.85},
	}

	var saved *domain.Annonce
	storage := &fakeStorage{save: func(a *domain.Annonce) error { saved = a; return nil }}
	geocoder := &fakeGeocoder{}
	uc := newCreateUC(storage, geocoder, &fakeNotifier{})

	if _, err := uc.Execute(context.Background(), input, freeEmployeur()); err != nil {
		t.Fatal(err)
	}
	if geocoder.calls != 0 {
		t.Error("geocoder must not be called without an address")
	}
	if saved.Localisation.Point == nil {
		t.Error("client-supplied point lost")
	}
}

func TestCreateAnnonce_Defaults(t *testing.T) {
	input := validInput()
	input.Remuneration = domain.Remuneration{Montant: 5000}

	var saved *domain.Annonce
	storage := &fakeStorage{save: func(a *domain.Annonce) error { saved = a; return nil }}
	uc := newCreateUC(storage, &fakeGeocoder{}, &fakeNotifier{})

	if _, err := uc.Execute(context.Background(), input, freeEmployeur()); err != nil {
		t.Fatal(err)
	}
	if saved.Remuneration.Devise != domain.DeviseParDefaut {
		t.Errorf("devise = %q, want %q", saved.Remuneration.Devise, domain.DeviseParDefaut)
	}
	if saved.Remuneration.Periode != domain.PeriodePrestation {
		t.Errorf("periode = %q, want %q", saved.Remuneration.Periode, domain.PeriodePrestation)
	}
}

func TestCreateAnnonce_NotificationsPublished(t *testing.T) {
	notifier := &fakeNotifier{}
	uc := newCreateUC(&fakeStorage{}, &fakeGeocoder{}, notifier)

	requester := freeEmployeur()
	if _, err := uc.Execute(context.Background(), validInput(), requester); err != nil {
		t.Fatal(err)
	}

	if len(notifier.published) != 2 {
		t.Fatalf("published %d notifications, want 2", len(notifier.published))
	}

	owner := notifier.published[0]
	if owner.Type != constants.NotifAnnonceCreee || owner.DestinataireID == nil || *owner.DestinataireID != *requester.UserID {
		t.Errorf("owner notification wrong: %+v", owner)
	}
	admin := notifier.published[1]
	if admin.Type != constants.NotifAnnonceAValider || admin.DestinataireID != nil {
		t.Errorf("admin notification wrong: %+v", admin)
	}
}

func TestCreateAnnonce_NotificationFailureNotBlocking(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("broker down")}
	uc := newCreateUC(&fakeStorage{}, &fakeGeocoder{}, notifier)

	if _, err := uc.Execute(context.Background(), validInput(), freeEmployeur()); err != nil {
		t.Errorf("broker failure must not fail the creation: %v", err)
	}
}

func TestCreateAnnonce_NegativeMontantRejected(t *testing.T) {
	input := validInput()
	input.Remuneration.Montant = -100
	uc := newCreateUC(&fakeStorage{}, &fakeGeocoder{}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), input, freeEmployeur())
	if !domain.IsValidation(err) {
		t.Errorf("got %v, want ValidationError for negative montant", err)
	}
}
