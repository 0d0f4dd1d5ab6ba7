package weather

import (
	"context"
	"fmt"

	"github.com/fieldvane/field-data-etl/internal/domain"
	"golang.org/x/time/rate"
)

// RateLimitedSource throttles calls to an upstream forecast source so the
// service stays inside the weather API's request quota regardless of how many
// preview requests arrive.
type RateLimitedSource struct {
	inner   domain.ForecastSource
	limiter *rate.Limiter
}

// NewRateLimitedSource wraps inner with a token-bucket limiter allowing rps
// requests per second with the given burst.
func NewRateLimitedSource(inner domain.ForecastSource, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchEntries blocks until a token is available or the context is done.
func (r *RateLimitedSource) FetchEntries(ctx context.Context, lat, lon float64) ([]domain.ForecastEntry, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.inner.FetchEntries(ctx, lat, lon)
}
