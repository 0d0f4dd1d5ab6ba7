package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/fieldvane/field-data-etl/internal/adapter/http"
	kafkaadapter "github.com/fieldvane/field-data-etl/internal/adapter/kafka"
	"github.com/fieldvane/field-data-etl/internal/adapter/mapbox"
	"github.com/fieldvane/field-data-etl/internal/adapter/weather"
	"github.com/fieldvane/field-data-etl/internal/config"
	"github.com/fieldvane/field-data-etl/internal/domain"
	"github.com/fieldvane/field-data-etl/internal/observability"
	"github.com/fieldvane/field-data-etl/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

func main() {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Initialize the forecast source (feature-flagged via WEATHER_ENABLED /
	// WEATHER_API_KEY). Rate limiting sits inside the cache so cache hits
	// never spend a token.
	var forecasts domain.ForecastSource
	if cfg.WeatherEnabled {
		client := weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherTimeout, metrics, logger)
		limited := weather.NewRateLimitedSource(client, cfg.WeatherRateLimit, cfg.WeatherRateBurst)
		forecasts = weather.NewCachedSource(limited, cfg.WeatherCacheTTL, clockwork.NewRealClock(), metrics, logger)
		logger.Info("weather preview enabled",
			"cache_ttl", cfg.WeatherCacheTTL,
			"rate_limit", cfg.WeatherRateLimit,
			"rate_burst", cfg.WeatherRateBurst)
	} else {
		logger.Info("weather preview disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(geocoder, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, forecasts, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
