package domain

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// points given as (longitude, latitude) pairs.
func HaversineKm(from, to GeoPoint) float64 {
	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// RoundDistanceKm rounds a distance to one decimal, the precision exposed in
// the distanceKm response field.
func RoundDistanceKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// ValidGeoPoint reports whether p is a usable [longitude, latitude] pair.
func ValidGeoPoint(p GeoPoint) bool {
	return p.Longitude >= -180 && p.Longitude <= 180 &&
		p.Latitude >= -90 && p.Latitude <= 90
}

// BoundingBox is the lat/lon rectangle used to prefilter geo candidates
// before the exact haversine check.
type BoundingBox struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// BoundingBoxAround returns a box that fully contains the circle of
// radiusKm around center. Longitude span widens with latitude; near the
// poles it degenerates to the full range.
func BoundingBoxAround(center GeoPoint, radiusKm float64) BoundingBox {
	latDelta := radiusKm / 111.32 // km per degree of latitude

	lonDelta := 180.0
	if cos := math.Cos(center.Latitude * math.Pi / 180); cos > 1e-6 {
		lonDelta = radiusKm / (111.32 * cos)
	}

	box := BoundingBox{
		MinLatitude:  math.Max(center.Latitude-latDelta, -90),
		MaxLatitude:  math.Min(center.Latitude+latDelta, 90),
		MinLongitude: math.Max(center.Longitude-lonDelta, -180),
		MaxLongitude: math.Min(center.Longitude+lonDelta, 180),
	}
	return box
}
