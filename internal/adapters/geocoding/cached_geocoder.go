package geocoding

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// noResultSentinel caches addresses Nominatim could not resolve, so the
// same bad address does not hit the API on every save.
const noResultSentinel = "__no_result__"

// CachedGeocoder is a read-through Redis cache in front of another
// geocoder. Cache trouble degrades to a direct call, never to an error.
type CachedGeocoder struct {
	inner  port.GeocoderPort
	client *redis.Client
	ttl    time.Duration
}

func NewCachedGeocoder(inner port.GeocoderPort, client *redis.Client, ttl time.Duration) *CachedGeocoder {
	if ttl == 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &CachedGeocoder{inner: inner, client: client, ttl: ttl}
}

func (c *CachedGeocoder) GeocodeAddress(ctx context.Context, adresse string) (*domain.GeoPoint, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedGeocoder",
	})
	key := cacheKey(adresse)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if cached == noResultSentinel {
			return nil, nil
		}
		var point domain.GeoPoint
		if err := json.Unmarshal([]byte(cached), &point); err == nil {
			return &point, nil
		}
		logger.Warn("Corrupt geocode cache entry, refetching", port.Fields{"key": key})
	case err != redis.Nil:
		logger.Warn("Geocode cache read failed", port.Fields{"error": err.Error()})
	}

	point, err := c.inner.GeocodeAddress(ctx, adresse)
	if err != nil {
		return nil, err
	}

	value := noResultSentinel
	if point != nil {
		if encoded, err := json.Marshal(point); err == nil {
			value = string(encoded)
		}
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		logger.Warn("Geocode cache write failed", port.Fields{"error": err.Error()})
	}
	return point, nil
}

// cacheKey folds case and strips diacritics so "Yaoundé" and "yaounde"
// share one entry.
func cacheKey(adresse string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(adresse))
	if err != nil {
		folded = strings.ToLower(adresse)
	}
	return "geocode:" + strings.Join(strings.Fields(folded), " ")
}
