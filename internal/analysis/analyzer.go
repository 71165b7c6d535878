// Package analysis exposes market-condition and technical analysis for one
// symbol at a time, with cached results and graceful degradation when the
// data provider is unreachable.
package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/monitoring"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/regime"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/data"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

const (
	// DefaultLookbackDays is the trailing window requested from the
	// provider for analysis.
	DefaultLookbackDays = 30

	// DefaultCacheTTL is how long analysis results stay fresh.
	DefaultCacheTTL = 5 * time.Minute

	// consensusVotes is how many indicator votes must agree before the
	// overall technical signal leaves neutral.
	consensusVotes = 3
)

// TechnicalAnalysis is an indicator snapshot plus the overall signal
// derived from it.
type TechnicalAnalysis struct {
	indicators.Snapshot
	Signal types.Action `json:"signal"`
}

// Analyzer computes market regime classifications and technical analysis.
// Results are cached per symbol; on provider failure the analyzer serves
// the last cached result (even expired) and otherwise degrades to a
// neutral, zeroed analysis instead of returning an error.
type Analyzer struct {
	provider     data.Provider
	detector     *regime.Detector
	ind          *indicators.Engine
	lookbackDays int

	regimeCache    *data.TTLCache[regime.Classification]
	technicalCache *data.TTLCache[TechnicalAnalysis]

	log zerolog.Logger
}

// Option customizes the analyzer.
type Option func(*Analyzer)

// WithLookbackDays changes the provider lookback window.
func WithLookbackDays(days int) Option {
	return func(a *Analyzer) { a.lookbackDays = days }
}

// WithCacheTTL changes the analysis result TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Analyzer) {
		a.regimeCache = data.NewTTLCache[regime.Classification](ttl)
		a.technicalCache = data.NewTTLCache[TechnicalAnalysis](ttl)
	}
}

// NewAnalyzer creates a market analyzer over the given data provider.
func NewAnalyzer(provider data.Provider, detector *regime.Detector, ind *indicators.Engine, log zerolog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider:       provider,
		detector:       detector,
		ind:            ind,
		lookbackDays:   DefaultLookbackDays,
		regimeCache:    data.NewTTLCache[regime.Classification](DefaultCacheTTL),
		technicalCache: data.NewTTLCache[TechnicalAnalysis](DefaultCacheTTL),
		log:            log.With().Str("component", "analysis").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeMarket classifies the market regime for a symbol, fetching history
// from the provider. It never returns an error: provider failures fall back
// to the last cached classification, or to an unknown regime with zero
// confidence when nothing is cached.
func (a *Analyzer) AnalyzeMarket(ctx context.Context, symbol string) regime.Classification {
	if cached, ok := a.regimeCache.Get(symbol); ok {
		monitoring.AnalysisCacheHit("regime")
		return cached
	}

	history, err := a.provider.HistoricalData(ctx, symbol, a.lookbackDays)
	if err != nil || history.Empty() {
		if stale, ok := a.regimeCache.GetStale(symbol); ok {
			a.log.Warn().Err(err).Str("symbol", symbol).Msg("market analysis falling back to stale cache")
			return stale
		}
		a.log.Warn().Err(err).Str("symbol", symbol).Msg("market analysis degraded to neutral result")
		return regime.Classification{
			Symbol:    symbol,
			Regime:    regime.RegimeUnknown,
			Timestamp: time.Now().UTC(),
		}
	}

	result := a.AnalyzeMarketSeries(symbol, history.Prices)
	a.regimeCache.Set(symbol, result)
	return result
}

// AnalyzeMarketSeries classifies an already-materialized price series. Pure
// apart from the result timestamp.
func (a *Analyzer) AnalyzeMarketSeries(symbol string, series types.PriceSeries) regime.Classification {
	return a.detector.Detect(symbol, series.Values(), time.Now().UTC())
}

// AnalyzeTechnicals computes the full indicator snapshot and overall signal
// for a symbol. Like AnalyzeMarket it never fails: it serves stale results
// when the provider is down and a zeroed neutral analysis as the last
// resort.
func (a *Analyzer) AnalyzeTechnicals(ctx context.Context, symbol string) *TechnicalAnalysis {
	// The cache holds values, so every caller gets its own copy and cannot
	// corrupt later reads by mutating the result.
	if cached, ok := a.technicalCache.Get(symbol); ok {
		monitoring.AnalysisCacheHit("technicals")
		return &cached
	}

	history, err := a.provider.HistoricalData(ctx, symbol, a.lookbackDays)
	if err != nil || history.Empty() {
		if stale, ok := a.technicalCache.GetStale(symbol); ok {
			a.log.Warn().Err(err).Str("symbol", symbol).Msg("technical analysis falling back to stale cache")
			return &stale
		}
		a.log.Warn().Err(err).Str("symbol", symbol).Msg("technical analysis degraded to neutral result")
		return &TechnicalAnalysis{
			Snapshot: indicators.Snapshot{Symbol: symbol, Timestamp: time.Now().UTC()},
			Signal:   types.ActionHold,
		}
	}

	result := a.AnalyzeTechnicalsSeries(symbol, history.Prices)
	a.technicalCache.Set(symbol, *result)
	return result
}

// AnalyzeTechnicalsSeries computes technicals from an already-materialized
// series.
func (a *Analyzer) AnalyzeTechnicalsSeries(symbol string, series types.PriceSeries) *TechnicalAnalysis {
	snapshot := a.ind.Snapshot(symbol, series.Values(), time.Now().UTC())
	if snapshot == nil {
		return &TechnicalAnalysis{
			Snapshot: indicators.Snapshot{Symbol: symbol, Timestamp: time.Now().UTC()},
			Signal:   types.ActionHold,
		}
	}
	return &TechnicalAnalysis{
		Snapshot: *snapshot,
		Signal:   DetermineSignal(snapshot),
	}
}

// Snapshot exposes the analyzer's indicator engine for callers that already
// hold a price window (the backtest path).
func (a *Analyzer) Snapshot(symbol string, prices []float64, at time.Time) *indicators.Snapshot {
	return a.ind.Snapshot(symbol, prices, at)
}

// Detector returns the regime detector, for parameter optimization.
func (a *Analyzer) Detector() *regime.Detector {
	return a.detector
}

// DetermineSignal reduces a snapshot to one overall buy/sell/neutral call by
// majority vote of four looks at the market: the EMA cross, the RSI bands,
// the MACD histogram, and price against both EMAs. At least three votes in
// one direction, and more than the other side, are needed to leave neutral.
func DetermineSignal(s *indicators.Snapshot) types.Action {
	bullish, bearish := 0, 0

	if s.EMA.Short > s.EMA.Medium {
		bullish++
	} else if s.EMA.Short < s.EMA.Medium {
		bearish++
	}

	if s.RSI < indicators.DefaultRSIOversold {
		bullish++
	} else if s.RSI > indicators.DefaultRSIOverbought {
		bearish++
	}

	if s.MACD.Histogram > 0 {
		bullish++
	} else if s.MACD.Histogram < 0 {
		bearish++
	}

	if s.Price > s.EMA.Short && s.Price > s.EMA.Medium {
		bullish++
	} else if s.Price < s.EMA.Short && s.Price < s.EMA.Medium {
		bearish++
	}

	switch {
	case bullish > bearish && bullish >= consensusVotes:
		return types.ActionBuy
	case bearish > bullish && bearish >= consensusVotes:
		return types.ActionSell
	default:
		return types.ActionHold
	}
}
