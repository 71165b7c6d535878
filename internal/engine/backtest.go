package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/backtest"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/monitoring"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// BacktestRequest describes one backtest run through the engine facade.
type BacktestRequest struct {
	StrategyType   types.StrategyType
	Params         strategy.Params
	Symbol         string
	Start          time.Time
	End            time.Time
	InitialCapital float64
	// Series optionally supplies the price history directly; when nil the
	// engine fetches it from the data provider.
	Series types.PriceSeries
}

// Backtest replays a strategy over historical prices. The request fails
// fast on an unknown strategy type or an invalid period; a short or empty
// series produces an empty result, not an error. Each run owns a fresh
// strategy instance, so concurrent backtests never share state.
func (e *Engine) Backtest(ctx context.Context, req BacktestRequest) (*backtest.Result, error) {
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("backtest %s: period end %s before start %s", req.Symbol, req.End, req.Start)
	}
	if req.InitialCapital <= 0 {
		return nil, fmt.Errorf("backtest %s: initial capital must be positive", req.Symbol)
	}

	// Construct the strategy up front so unknown types are rejected before
	// any data is fetched. The arbitrage venue is seeded from the request,
	// keeping identical requests byte-identical.
	venue := strategy.NewSimulatedVenue(backtestSeed(req.Symbol, req.Start, req.End))
	inst, err := strategy.New(
		fmt.Sprintf("Backtest %s", req.StrategyType),
		req.StrategyType,
		req.Params,
		strategy.WithRiskSettings(e.RiskSettings()),
		strategy.WithVenueQuoter(venue),
	)
	if err != nil {
		return nil, err
	}

	series := req.Series
	if series == nil {
		days := int(req.End.Sub(req.Start).Hours()/24) + 1
		history, err := e.provider.HistoricalData(ctx, req.Symbol, days)
		if err != nil {
			return nil, fmt.Errorf("backtest %s: %w", req.Symbol, err)
		}
		series = history.Prices
	}
	series = series.FilterRange(req.Start, req.End)

	sim := backtest.NewSimulator(inst, indicators.NewEngine(indicators.DefaultConfig()), backtest.Config{
		Symbol:         req.Symbol,
		InitialCapital: req.InitialCapital,
		Start:          req.Start,
		End:            req.End,
	}, e.log)

	started := time.Now()
	result, err := sim.Run(series)
	if err != nil {
		return nil, err
	}
	monitoring.BacktestCompleted(time.Since(started), len(result.Trades), req.Symbol)

	e.log.Info().
		Str("symbol", req.Symbol).
		Str("type", string(req.StrategyType)).
		Int("bars", len(series)).
		Int("trades", len(result.Trades)).
		Float64("total_return", result.TotalReturn).
		Msg("backtest finished")

	return result, nil
}
