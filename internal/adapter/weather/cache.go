package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fieldvane/field-data-etl/internal/domain"
	"github.com/fieldvane/field-data-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// CachedSource wraps a ForecastSource with a per-coordinate TTL cache. Only
// successful fetches are cached; when the upstream fails and an expired entry
// is still present, the stale entry is served rather than failing the caller.
type CachedSource struct {
	inner   domain.ForecastSource
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	forecast  []domain.ForecastEntry
	expiresAt time.Time
}

// NewCachedSource creates a caching decorator around inner. The clock is
// injectable so expiry can be tested without sleeping.
func NewCachedSource(inner domain.ForecastSource, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
}

// FetchEntries serves from cache while the entry is fresh, refreshes from the
// inner source on expiry, and falls back to the stale entry if the refresh
// fails.
func (c *CachedSource) FetchEntries(ctx context.Context, lat, lon float64) ([]domain.ForecastEntry, error) {
	key := cacheKey(lat, lon)
	now := c.clock.Now()

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()

	if ok && now.Before(cached.expiresAt) {
		c.metrics.ForecastCache.WithLabelValues("hit").Inc()
		return cached.forecast, nil
	}

	c.metrics.ForecastCache.WithLabelValues("miss").Inc()
	fresh, err := c.inner.FetchEntries(ctx, lat, lon)
	if err != nil {
		if ok {
			c.metrics.ForecastCache.WithLabelValues("stale").Inc()
			c.logger.Warn("forecast refresh failed, serving stale entry",
				"error", err,
				"lat", lat,
				"lon", lon,
				"expired_ago", now.Sub(cached.expiresAt).String())
			return cached.forecast, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{forecast: fresh, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	return fresh, nil
}

// cacheKey rounds coordinates to ~11m so nearby requests for the same site
// share an entry.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}
