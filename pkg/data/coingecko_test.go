package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marketChartJSON = `{
	"prices": [[1704067200000, 100.0], [1704070800000, 101.5]],
	"market_caps": [[1704067200000, 2000000.0], [1704070800000, 2030000.0]],
	"total_volumes": [[1704067200000, 50000.0], [1704070800000, 51000.0]]
}`

// TestCoinGeckoClient_HistoricalData tests parsing the market chart payload.
func TestCoinGeckoClient_HistoricalData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "30", r.URL.Query().Get("days"))
		w.Write([]byte(marketChartJSON))
	}))
	defer server.Close()

	client := NewCoinGeckoClient(zerolog.Nop(), WithBaseURL(server.URL))

	data, err := client.HistoricalData(context.Background(), "bitcoin", 30)

	require.NoError(t, err)
	require.Len(t, data.Prices, 2)
	assert.Equal(t, 100.0, data.Prices[0].Value)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), data.Prices[0].Time)
	assert.Len(t, data.MarketCaps, 2)
	assert.Len(t, data.TotalVolumes, 2)
}

// TestCoinGeckoClient_CachesResponses tests that a fresh cache entry
// short-circuits the HTTP request.
func TestCoinGeckoClient_CachesResponses(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(marketChartJSON))
	}))
	defer server.Close()

	client := NewCoinGeckoClient(zerolog.Nop(), WithBaseURL(server.URL))

	_, err := client.HistoricalData(context.Background(), "bitcoin", 30)
	require.NoError(t, err)
	_, err = client.HistoricalData(context.Background(), "bitcoin", 30)
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
}

// TestCoinGeckoClient_StaleFallback tests serving expired data when the API
// starts failing.
func TestCoinGeckoClient_StaleFallback(t *testing.T) {
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(marketChartJSON))
	}))
	defer server.Close()

	// Zero TTL expires entries immediately, forcing a refetch attempt.
	client := NewCoinGeckoClient(zerolog.Nop(), WithBaseURL(server.URL), WithHistoryTTL(0))

	healthy, err := client.HistoricalData(context.Background(), "bitcoin", 30)
	require.NoError(t, err)

	failing.Store(true)
	stale, err := client.HistoricalData(context.Background(), "bitcoin", 30)

	require.NoError(t, err)
	assert.Equal(t, healthy, stale)
}

// TestCoinGeckoClient_ErrorWithoutCache tests that a failing API with an
// empty cache surfaces the error.
func TestCoinGeckoClient_ErrorWithoutCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewCoinGeckoClient(zerolog.Nop(), WithBaseURL(server.URL))

	_, err := client.HistoricalData(context.Background(), "bitcoin", 30)

	assert.Error(t, err)
}
