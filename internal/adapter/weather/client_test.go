package weather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldvane/field-data-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient("test-key", server.URL, 5*time.Second, metrics, logger), server
}

func TestFetchEntries_Success(t *testing.T) {
	var gotQuery map[string]string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"lat":   r.URL.Query().Get("lat"),
			"lon":   r.URL.Query().Get("lon"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"list": [
				{"dt": 1712016000, "main": {"temp": 68.4}, "weather": [{"main": "Clear"}], "pop": 0.15},
				{"dt": 1712019600, "main": {"temp": 71.2}, "weather": [{"main": "Clouds"}]}
			]
		}`))
	})

	entries, err := client.FetchEntries(context.Background(), 41.8781, -87.6298)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "41.8781", gotQuery["lat"])
	assert.Equal(t, "-87.6298", gotQuery["lon"])
	assert.Equal(t, "test-key", gotQuery["appid"])
	assert.Equal(t, "imperial", gotQuery["units"])

	require.NotNil(t, entries[0].Timestamp)
	assert.Equal(t, int64(1712016000), *entries[0].Timestamp)
	require.NotNil(t, entries[0].Temperature)
	assert.Equal(t, 68.4, *entries[0].Temperature)
	require.NotNil(t, entries[0].PrecipProbability)
	assert.Equal(t, 0.15, *entries[0].PrecipProbability)
	assert.Equal(t, "Clear", entries[0].Condition)

	// Second entry has no pop field; probability stays absent, not zero.
	assert.Nil(t, entries[1].PrecipProbability)
	assert.Equal(t, "Clouds", entries[1].Condition)
}

func TestFetchEntries_PartialEntry(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": [{"dt": 1712016000}]}`))
	})

	entries, err := client.FetchEntries(context.Background(), 41.0, -87.0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Temperature)
	assert.Nil(t, entries[0].PrecipProbability)
	assert.Empty(t, entries[0].Condition)
}

func TestFetchEntries_APIError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod": 401, "message": "Invalid API key"}`))
	})

	_, err := client.FetchEntries(context.Background(), 41.0, -87.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestFetchEntries_MalformedBody(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": [`))
	})

	_, err := client.FetchEntries(context.Background(), 41.0, -87.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestFetchEntries_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key", server.URL, 10*time.Millisecond,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.FetchEntries(context.Background(), 41.0, -87.0)
	require.Error(t, err)
}
