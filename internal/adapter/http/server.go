package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldvane/field-data-etl/internal/domain"
	"github.com/fieldvane/field-data-etl/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and the field-API HTTP endpoints.
type Server struct {
	httpServer *http.Server
	forecasts  domain.ForecastSource
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server. Pass a nil forecast source to disable the
// forecast endpoint; it then answers 503.
func NewServer(addr string, ready ReadinessChecker, forecasts domain.ForecastSource, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forecasts: forecasts,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/v1/quantity", s.handleQuantity)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// forecastResponse is the site weather preview payload.
type forecastResponse struct {
	Lat      float64                `json:"lat"`
	Lon      float64                `json:"lon"`
	Timezone string                 `json:"timezone"`
	Days     []domain.DailyForecast `json:"days"`
}

// handleForecast serves the site weather preview: it fetches hourly entries
// for the requested coordinate and aggregates them into at most seven daily
// summaries. Aggregation never runs on a failed fetch; the client renders the
// unavailable state instead of empty days.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if s.forecasts == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("forecast not configured"))
		return
	}

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeJSON(w, http.StatusBadRequest, errorBody("lat and lon query parameters are required and must be valid coordinates"))
		return
	}

	loc := time.Local
	tzName := r.URL.Query().Get("tz")
	if tzName != "" {
		parsed, err := time.LoadLocation(tzName)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("unknown tz: "+tzName))
			return
		}
		loc = parsed
	}

	entries, err := s.forecasts.FetchEntries(r.Context(), lat, lon)
	if err != nil {
		s.metrics.ForecastRequests.WithLabelValues("error").Inc()
		s.logger.Error("forecast fetch failed", "error", err, "lat", lat, "lon", lon)
		if errors.Is(err, context.Canceled) {
			return
		}
		writeJSON(w, http.StatusBadGateway, errorBody("forecast unavailable"))
		return
	}

	s.metrics.ForecastRequests.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, forecastResponse{
		Lat:      lat,
		Lon:      lon,
		Timezone: loc.String(),
		Days:     domain.AggregateDaily(entries, loc),
	})
}

// quantityResponse echoes the parsed structure plus its canonical rendering.
type quantityResponse struct {
	Raw       string          `json:"raw"`
	Quantity  domain.Quantity `json:"quantity"`
	Formatted string          `json:"formatted"`
}

// handleQuantity parses a free-text quantity string, exposing the same parser
// the pipeline applies to inspector records.
func (s *Server) handleQuantity(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	q := domain.ParseQuantity(raw)
	formatted, _ := domain.FormatQuantity(q)
	writeJSON(w, http.StatusOK, quantityResponse{
		Raw:       raw,
		Quantity:  q,
		Formatted: formatted,
	})
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
