package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to enrich an observation with geocoding data.
// If geocoder is nil or geocoding fails, the observation is returned with
// GeoSource set accordingly (graceful degradation). Records without
// coordinates get them resolved from their site city/state so the weather
// preview has a coordinate to work with.
func EnrichWithGeocoding(ctx context.Context, obs Observation, geocoder Geocoder, logger *slog.Logger) Observation {
	if geocoder == nil {
		return obs
	}

	hasCoords := obs.Geo.Lat != 0 || obs.Geo.Lon != 0
	hasSite := obs.Site.City != "" && obs.Site.State != ""

	// Forward geocode: site city/state → coordinates (when coords are missing).
	if !hasCoords && hasSite {
		result, err := geocoder.ForwardGeocode(ctx, obs.Site.City, obs.Site.State)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"observation_id", obs.ID,
				"city", obs.Site.City,
				"state", obs.Site.State,
				"error", err,
			)
			obs.GeoSource = "failed"
			return obs
		}
		if result.Lat != 0 || result.Lon != 0 {
			obs.Geo.Lat = result.Lat
			obs.Geo.Lon = result.Lon
			obs.FormattedAddress = result.FormattedAddress
			obs.PlaceName = result.PlaceName
			obs.GeoConfidence = result.Confidence
			obs.GeoSource = "forward"
			return obs
		}
		obs.GeoSource = "original"
		return obs
	}

	// Reverse geocode: coordinates → place details (when coords are present).
	if hasCoords {
		result, err := geocoder.ReverseGeocode(ctx, obs.Geo.Lat, obs.Geo.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"observation_id", obs.ID,
				"lat", obs.Geo.Lat,
				"lon", obs.Geo.Lon,
				"error", err,
			)
			obs.GeoSource = "failed"
			return obs
		}
		if result.FormattedAddress != "" {
			obs.FormattedAddress = result.FormattedAddress
			obs.PlaceName = result.PlaceName
			obs.GeoConfidence = result.Confidence
			obs.GeoSource = "reverse"
			return obs
		}
		obs.GeoSource = "original"
		return obs
	}

	obs.GeoSource = "original"
	return obs
}
