package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	engerrors "github.com/tdnghia1906/crypto-strategy-engine/internal/errors"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

const (
	// DefaultCoinGeckoURL is the public API base.
	DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

	// DefaultHistoryTTL is how long a fetched history stays fresh.
	DefaultHistoryTTL = 5 * time.Minute

	defaultRequestTimeout = 10 * time.Second

	// The public CoinGecko tier allows roughly 30 calls/minute.
	defaultRateLimit = rate.Limit(0.5)
	defaultRateBurst = 2
)

// CoinGeckoClient fetches market history from the CoinGecko HTTP API.
// Responses are cached with a TTL, and the cache doubles as a stale
// fallback when the API is unreachable.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *TTLCache[*types.HistoricalData]
	log        zerolog.Logger
}

// CoinGeckoOption customizes the client.
type CoinGeckoOption func(*CoinGeckoClient)

// WithBaseURL points the client at a different API host (used in tests).
func WithBaseURL(baseURL string) CoinGeckoOption {
	return func(c *CoinGeckoClient) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) CoinGeckoOption {
	return func(c *CoinGeckoClient) { c.httpClient = client }
}

// WithHistoryTTL changes how long cached histories stay fresh.
func WithHistoryTTL(ttl time.Duration) CoinGeckoOption {
	return func(c *CoinGeckoClient) { c.cache = NewTTLCache[*types.HistoricalData](ttl) }
}

// NewCoinGeckoClient creates a rate-limited, caching CoinGecko client.
func NewCoinGeckoClient(log zerolog.Logger, opts ...CoinGeckoOption) *CoinGeckoClient {
	c := &CoinGeckoClient{
		baseURL:    DefaultCoinGeckoURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		limiter:    rate.NewLimiter(defaultRateLimit, defaultRateBurst),
		cache:      NewTTLCache[*types.HistoricalData](DefaultHistoryTTL),
		log:        log.With().Str("component", "coingecko").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// marketChartResponse mirrors the /market_chart payload: each series is a
// list of [unix_ms, value] pairs.
type marketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// HistoricalData returns the trailing price history for a coin id. A fresh
// cache entry short-circuits the request; on a failed request the last
// cached value is returned even if expired, so a flaky provider degrades to
// stale data instead of an error.
func (c *CoinGeckoClient) HistoricalData(ctx context.Context, symbol string, days int) (*types.HistoricalData, error) {
	cacheKey := symbol + "_" + strconv.Itoa(days)

	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	data, err := c.fetchMarketChart(ctx, symbol, days)
	if err != nil {
		if stale, ok := c.cache.GetStale(cacheKey); ok {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("provider unreachable, serving stale history")
			return stale, nil
		}
		return nil, engerrors.Wrap(err, engerrors.CategoryData, "coingecko", "market_chart")
	}

	c.cache.Set(cacheKey, data)
	return data, nil
}

func (c *CoinGeckoClient) fetchMarketChart(ctx context.Context, symbol string, days int) (*types.HistoricalData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	q := req.URL.Query()
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch market chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch market chart for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var payload marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode market chart for %s: %w", symbol, err)
	}

	return &types.HistoricalData{
		Prices:       toSeries(payload.Prices),
		MarketCaps:   toSeries(payload.MarketCaps),
		TotalVolumes: toSeries(payload.TotalVolumes),
	}, nil
}

// toSeries converts [unix_ms, value] pairs into a PriceSeries.
func toSeries(pairs [][2]float64) types.PriceSeries {
	series := make(types.PriceSeries, 0, len(pairs))
	for _, pair := range pairs {
		series = append(series, types.PricePoint{
			Time:  time.UnixMilli(int64(pair[0])).UTC(),
			Value: pair[1],
		})
	}
	return series
}
