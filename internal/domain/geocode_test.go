package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	reverseResult GeocodingResult
	reverseErr    error
	forwardCalls  int
	reverseCalls  int
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, _, _ string) (GeocodingResult, error) {
	m.forwardCalls++
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.reverseCalls++
	return m.reverseResult, m.reverseErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestEnrichWithGeocoding_NilGeocoder(t *testing.T) {
	obs := Observation{
		ID:   "obs-1",
		Site: Site{City: "Austin", State: "TX"},
	}

	result := EnrichWithGeocoding(context.Background(), obs, nil, discardLogger())

	assert.Empty(t, result.GeoSource)
	assert.Empty(t, result.FormattedAddress)
}

func TestEnrichWithGeocoding_ForwardGeocode(t *testing.T) {
	geo := &mockGeocoder{
		forwardResult: GeocodingResult{
			Lat:              30.2672,
			Lon:              -97.7431,
			FormattedAddress: "Austin, Texas, United States",
			PlaceName:        "Austin",
			Confidence:       0.95,
		},
	}

	obs := Observation{
		ID:   "obs-2",
		Site: Site{City: "Austin", State: "TX"},
	}

	result := EnrichWithGeocoding(context.Background(), obs, geo, discardLogger())

	assert.Equal(t, 1, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
	assert.Equal(t, "forward", result.GeoSource)
	assert.Equal(t, 30.2672, result.Geo.Lat)
	assert.Equal(t, -97.7431, result.Geo.Lon)
	assert.Equal(t, "Austin, Texas, United States", result.FormattedAddress)
	assert.Equal(t, 0.95, result.GeoConfidence)
}

func TestEnrichWithGeocoding_ForwardFailure(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("api down")}

	obs := Observation{
		ID:   "obs-3",
		Site: Site{City: "Austin", State: "TX"},
	}

	result := EnrichWithGeocoding(context.Background(), obs, geo, discardLogger())

	assert.Equal(t, "failed", result.GeoSource)
	assert.Zero(t, result.Geo.Lat)
}

func TestEnrichWithGeocoding_ForwardEmptyResult(t *testing.T) {
	geo := &mockGeocoder{}

	obs := Observation{
		ID:   "obs-4",
		Site: Site{City: "Nowhereville", State: "XX"},
	}

	result := EnrichWithGeocoding(context.Background(), obs, geo, discardLogger())

	assert.Equal(t, "original", result.GeoSource)
}

func TestEnrichWithGeocoding_ReverseGeocode(t *testing.T) {
	geo := &mockGeocoder{
		reverseResult: GeocodingResult{
			FormattedAddress: "Austin, Travis County, Texas",
			PlaceName:        "Austin",
			Confidence:       0.98,
		},
	}

	obs := Observation{
		ID:  "obs-5",
		Geo: Geo{Lat: 30.2672, Lon: -97.7431},
	}

	result := EnrichWithGeocoding(context.Background(), obs, geo, discardLogger())

	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 1, geo.reverseCalls)
	assert.Equal(t, "reverse", result.GeoSource)
	assert.Equal(t, "Austin, Travis County, Texas", result.FormattedAddress)
	// Original coordinates must survive reverse lookup.
	assert.Equal(t, 30.2672, result.Geo.Lat)
}

func TestEnrichWithGeocoding_ReverseFailure(t *testing.T) {
	geo := &mockGeocoder{reverseErr: errors.New("timeout")}

	obs := Observation{
		ID:  "obs-6",
		Geo: Geo{Lat: 30.2672, Lon: -97.7431},
	}

	result := EnrichWithGeocoding(context.Background(), obs, geo, discardLogger())

	assert.Equal(t, "failed", result.GeoSource)
}

func TestEnrichWithGeocoding_NoSiteNoCoords(t *testing.T) {
	geo := &mockGeocoder{}

	result := EnrichWithGeocoding(context.Background(), Observation{ID: "obs-7"}, geo, discardLogger())

	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
	assert.Equal(t, "original", result.GeoSource)
}
