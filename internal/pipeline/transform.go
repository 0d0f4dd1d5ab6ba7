package pipeline

import (
	"context"
	"log/slog"

	"github.com/fieldvane/field-data-etl/internal/domain"
)

// ObservationTransformer implements Transformer using domain transform
// functions with optional geocoding enrichment.
type ObservationTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates an ObservationTransformer. Pass a nil geocoder to
// disable geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *ObservationTransformer {
	return &ObservationTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *ObservationTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.Observation, error) {
	obs, err := domain.ParseRawObservation(raw)
	if err != nil {
		return domain.Observation{}, err
	}

	obs = domain.EnrichObservation(obs)
	obs = domain.EnrichWithGeocoding(ctx, obs, t.geocoder, t.logger)

	return obs, nil
}
