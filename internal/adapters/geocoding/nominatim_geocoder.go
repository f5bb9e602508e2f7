package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// NominatimGeocoder resolves textual addresses through the OpenStreetMap
// Nominatim API. A request that resolves nothing returns (nil, nil): the
// caller decides whether a missing point is a problem.
type NominatimGeocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

type NominatimConfig struct {
	// BaseURL defaults to the public Nominatim instance.
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

func NewNominatimGeocoder(cfg NominatimConfig) *NominatimGeocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "listing-service/1.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &NominatimGeocoder{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) GeocodeAddress(ctx context.Context, adresse string) (*domain.GeoPoint, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "NominatimGeocoder",
		"adresse":   adresse,
	})

	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.baseURL, url.QueryEscape(adresse))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(results) == 0 {
		logger.Debug("No geocoding result", nil)
		return nil, nil
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, fmt.Errorf("geocoding service returned malformed coordinates (lat=%q lon=%q)", results[0].Lat, results[0].Lon)
	}

	point := &domain.GeoPoint{Longitude: lon, Latitude: lat}
	if !domain.ValidGeoPoint(*point) {
		return nil, fmt.Errorf("geocoding service returned out-of-range coordinates (%f, %f)", lon, lat)
	}
	return point, nil
}
