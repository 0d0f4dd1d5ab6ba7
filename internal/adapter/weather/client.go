// Package weather fetches hourly forecasts for site coordinates and decorates
// the fetch path with caching and rate limiting.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fieldvane/field-data-etl/internal/domain"
	"github.com/fieldvane/field-data-etl/internal/observability"
)

// Client implements domain.ForecastSource against an OpenWeatherMap-style
// forecast endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a weather API client.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEntries requests the hourly forecast for a coordinate and maps the
// wire response onto the domain's optional-field contract. A non-2xx status
// is a fetch failure carrying the response body text as detail.
func (c *Client) FetchEntries(ctx context.Context, lat, lon float64) ([]domain.ForecastEntry, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', 4, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', 4, 64)},
		"appid": {c.apiKey},
		"units": {"imperial"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, body)
	}

	var wire forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return mapEntries(wire), nil
}

// mapEntries converts the duck-typed wire shape into the strict domain
// contract: each field is validated independently so a bad temperature does
// not discard the entry's precipitation probability.
func mapEntries(wire forecastResponse) []domain.ForecastEntry {
	entries := make([]domain.ForecastEntry, 0, len(wire.List))
	for _, item := range wire.List {
		e := domain.ForecastEntry{}
		if item.Dt != 0 {
			ts := item.Dt
			e.Timestamp = &ts
		}
		if item.Main != nil && item.Main.Temp != nil && !math.IsNaN(*item.Main.Temp) {
			t := *item.Main.Temp
			e.Temperature = &t
		}
		if item.Pop != nil && !math.IsNaN(*item.Pop) {
			p := *item.Pop
			e.PrecipProbability = &p
		}
		if len(item.Weather) > 0 {
			e.Condition = item.Weather[0].Main
		}
		entries = append(entries, e)
	}
	return entries
}

// OpenWeatherMap API response types. Pointers keep "absent" distinguishable
// from zero at the boundary.

type forecastResponse struct {
	List []forecastItem `json:"list"`
}

type forecastItem struct {
	Dt   int64 `json:"dt"` // unix seconds
	Main *struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"` // e.g. "Clear", "Rain"
	} `json:"weather"`
	Pop *float64 `json:"pop"` // probability of precipitation, 0.0–1.0
}
