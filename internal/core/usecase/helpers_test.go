package usecase

import (
	"context"
	"time"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

// fakeStorage implements port.AnnonceStoragePort with per-method hooks so
// each test stubs only what it touches.
type fakeStorage struct {
	countWithFilters        func(filters domain.EffectiveFilters) (int, error)
	findWithFilters         func(filters domain.EffectiveFilters, limit, offset int) ([]domain.AnnonceCard, error)
	findGeoCandidates       func(filters domain.EffectiveFilters, q port.GeoCandidateQuery) ([]domain.AnnonceCard, error)
	getVisibleByID          func(id uuid.UUID) (*domain.AnnonceCard, error)
	getByIDForOwner         func(id uuid.UUID) (*domain.Annonce, error)
	incrementVues           func(id uuid.UUID) error
	save                    func(annonce *domain.Annonce) error
	update                  func(annonce *domain.Annonce) error
	softDelete              func(id uuid.UUID) error
	countActivesByEmployeur func(employeurID uuid.UUID) (int, error)
	findByEmployeur         func(filter port.MyAnnoncesFilter, limit, offset int) ([]domain.AnnonceCard, int, error)
	markExpired             func() ([]port.ExpiredAnnonce, error)
	categorieExists         func(id uuid.UUID) (bool, error)
}

func (f *fakeStorage) CountWithFilters(_ context.Context, filters domain.EffectiveFilters, _ time.Time) (int, error) {
	if f.countWithFilters == nil {
		return 0, nil
	}
	return f.countWithFilters(filters)
}

func (f *fakeStorage) FindWithFilters(_ context.Context, filters domain.EffectiveFilters, _ time.Time, limit, offset int) ([]domain.AnnonceCard, error) {
	if f.findWithFilters == nil {
		return nil, nil
	}
	return f.findWithFilters(filters, limit, offset)
}

func (f *fakeStorage) FindGeoCandidates(_ context.Context, filters domain.EffectiveFilters, _ time.Time, q port.GeoCandidateQuery) ([]domain.AnnonceCard, error) {
	if f.findGeoCandidates == nil {
		return nil, nil
	}
	return f.findGeoCandidates(filters, q)
}

func (f *fakeStorage) GetVisibleByID(_ context.Context, id uuid.UUID, _ time.Time) (*domain.AnnonceCard, error) {
	if f.getVisibleByID == nil {
		return nil, domain.ErrAnnonceNotFound
	}
	return f.getVisibleByID(id)
}

func (f *fakeStorage) GetByIDForOwner(_ context.Context, id uuid.UUID) (*domain.Annonce, error) {
	if f.getByIDForOwner == nil {
		return nil, domain.ErrAnnonceNotFound
	}
	return f.getByIDForOwner(id)
}

func (f *fakeStorage) IncrementVues(_ context.Context, id uuid.UUID) error {
	if f.incrementVues == nil {
		return nil
	}
	return f.incrementVues(id)
}

func (f *fakeStorage) Save(_ context.Context, annonce *domain.Annonce) error {
	if f.save == nil {
		return nil
	}
	return f.save(annonce)
}

func (f *fakeStorage) Update(_ context.Context, annonce *domain.Annonce) error {
	if f.update == nil {
		return nil
	}
	return f.update(annonce)
}

func (f *fakeStorage) SoftDelete(_ context.Context, id uuid.UUID) error {
	if f.softDelete == nil {
		return nil
	}
	return f.softDelete(id)
}

func (f *fakeStorage) CountActivesByEmployeur(_ context.Context, employeurID uuid.UUID, _ time.Time) (int, error) {
	if f.countActivesByEmployeur == nil {
		return 0, nil
	}
	return f.countActivesByEmployeur(employeurID)
}

func (f *fakeStorage) FindByEmployeur(_ context.Context, filter port.MyAnnoncesFilter, limit, offset int) ([]domain.AnnonceCard, int, error) {
	if f.findByEmployeur == nil {
		return nil, 0, nil
	}
	return f.findByEmployeur(filter, limit, offset)
}

func (f *fakeStorage) MarkExpired(_ context.Context, _ time.Time) ([]port.ExpiredAnnonce, error) {
	if f.markExpired == nil {
		return nil, nil
	}
	return f.markExpired()
}

func (f *fakeStorage) CategorieExists(_ context.Context, id uuid.UUID) (bool, error) {
	if f.categorieExists == nil {
		return true, nil
	}
	return f.categorieExists(id)
}

// fakeNotifier records published notifications.
type fakeNotifier struct {
	published []port.Notification
	err       error
}

func (f *fakeNotifier) PublishNotification(_ context.Context, n port.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

// fakeGeocoder resolves every address to a fixed point.
type fakeGeocoder struct {
	point *domain.GeoPoint
	err   error
	calls int
}

func (f *fakeGeocoder) GeocodeAddress(_ context.Context, _ string) (*domain.GeoPoint, error) {
	f.calls++
	return f.point, f.err
}

func premiumWorker() domain.RequesterContext {
	id := uuid.New()
	return domain.RequesterContext{UserID: &id, Role: domain.RoleTravailleur, TypeAbonnement: "premium_travailleur"}
}

func freeWorker() domain.RequesterContext {
	id := uuid.New()
	return domain.RequesterContext{UserID: &id, Role: domain.RoleTravailleur, TypeAbonnement: domain.AbonnementGratuit}
}

func freeEmployeur() domain.RequesterContext {
	id := uuid.New()
	return domain.RequesterContext{UserID: &id, Role: domain.RoleEmployeur, TypeAbonnement: domain.AbonnementGratuit}
}

func premiumEmployeur() domain.RequesterContext {
	id := uuid.New()
	return domain.RequesterContext{UserID: &id, Role: domain.RoleEmployeur, TypeAbonnement: "premium_employeur"}
}

// cardAt builds a visible card located at the given point.
func cardAt(lon, lat float64, premium bool, createdAt time.Time) domain.AnnonceCard {
	return domain.AnnonceCard{
		Annonce: domain.Annonce{
			ID:                uuid.New(),
			Statut:            domain.StatutActive,
			EstPremiumAnnonce: premium,
			CreatedAt:         createdAt,
			DateExpiration:    createdAt.Add(30 * 24 * time.Hour),
			Localisation: domain.Localisation{
				Point: &domain.GeoPoint{Longitude: lon, Latitude: lat},
			},
		},
	}
}
