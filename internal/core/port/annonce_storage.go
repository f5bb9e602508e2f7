package port

import (
	"context"
	"time"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// GeoCandidateQuery bounds the candidate fetch for a radius search. The
// exact haversine filter runs in the engine, so the store only needs a
// coarse prefilter around the center (bounding box, geohash cells).
// Listings without a geo point are excluded by construction.
type GeoCandidateQuery struct {
	Center     domain.GeoPoint
	RadiusKm   float64
	Box        domain.BoundingBox
	FetchLimit int
}

// MyAnnoncesFilter scopes an employer's own listings; no tier gating.
type MyAnnoncesFilter struct {
	EmployeurID uuid.UUID
	Statut      string
	MotCle      string
}

// ExpiredAnnonce is the minimal projection needed to notify an employer
// after the expiration sweep.
type ExpiredAnnonce struct {
	ID          uuid.UUID
	Titre       string
	EmployeurID uuid.UUID
}

// AnnonceStoragePort is the listing store contract. Visibility (statut =
// active AND dateExpiration > now) is enforced by the store for every
// search-facing method.
type AnnonceStoragePort interface {
	// CountWithFilters returns the size of the filtered visible set.
	CountWithFilters(ctx context.Context, filters domain.EffectiveFilters, now time.Time) (int, error)

	// FindWithFilters returns one page of visible listings, boosted-first
	// then ordered by filters.Sort, with populated category and employer
	// display info.
	FindWithFilters(ctx context.Context, filters domain.EffectiveFilters, now time.Time, limit, offset int) ([]domain.AnnonceCard, error)

	// FindGeoCandidates returns the visible listings matching filters whose
	// point falls inside the candidate query bounds, unordered.
	FindGeoCandidates(ctx context.Context, filters domain.EffectiveFilters, now time.Time, q GeoCandidateQuery) ([]domain.AnnonceCard, error)

	// GetVisibleByID returns a visible listing or domain.ErrAnnonceNotFound;
	// missing and filtered-out listings are indistinguishable.
	GetVisibleByID(ctx context.Context, id uuid.UUID, now time.Time) (*domain.AnnonceCard, error)

	// GetByIDForOwner returns a listing in any statut for ownership checks,
	// or domain.ErrAnnonceNotFound.
	GetByIDForOwner(ctx context.Context, id uuid.UUID) (*domain.Annonce, error)

	// IncrementVues atomically bumps the view counter.
	IncrementVues(ctx context.Context, id uuid.UUID) error

	Save(ctx context.Context, annonce *domain.Annonce) error
	Update(ctx context.Context, annonce *domain.Annonce) error

	// SoftDelete sets statut = supprimee; rows are never removed physically.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// CountActivesByEmployeur counts the employer's visible listings, for
	// the free-tier posting limit.
	CountActivesByEmployeur(ctx context.Context, employeurID uuid.UUID, now time.Time) (int, error)

	FindByEmployeur(ctx context.Context, filter MyAnnoncesFilter, limit, offset int) ([]domain.AnnonceCard, int, error)

	// MarkExpired flips active listings past their expiration to statut =
	// expiree and returns them for notification.
	MarkExpired(ctx context.Context, now time.Time) ([]ExpiredAnnonce, error)

	// CategorieExists checks a category reference before create/update.
	CategorieExists(ctx context.Context, id uuid.UUID) (bool, error)
}
