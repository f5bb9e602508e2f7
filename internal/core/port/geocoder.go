package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// GeocoderPort resolves a free-text address to a geographic point.
// A nil point with a nil error means "address not resolvable"; callers must
// treat every failure as best-effort and continue without a point.
type GeocoderPort interface {
	GeocodeAddress(ctx context.Context, adresse string) (*domain.GeoPoint, error)
}
