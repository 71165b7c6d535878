package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/analysis"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/exchange"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/regime"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// stubProvider serves a fixed series for every symbol.
type stubProvider struct {
	series types.PriceSeries
	fail   bool
}

func (p *stubProvider) HistoricalData(_ context.Context, _ string, _ int) (*types.HistoricalData, error) {
	if p.fail {
		return nil, errors.New("provider unreachable")
	}
	return &types.HistoricalData{Prices: p.series}, nil
}

func risingSeries(n int) types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, n)
	for i := range series {
		series[i] = types.PricePoint{
			Time:  start.Add(time.Duration(i) * time.Hour),
			Value: 100.0 * (1 + 0.005*float64(i)),
		}
	}
	return series
}

func newTestEngine(provider *stubProvider) *Engine {
	log := zerolog.Nop()
	analyzer := analysis.NewAnalyzer(
		provider,
		regime.NewDetector(regime.DefaultThresholds()),
		indicators.NewEngine(indicators.DefaultConfig()),
		log,
	)
	return New(Config{
		Provider:  provider,
		Analyzer:  analyzer,
		Simulated: exchange.NewSimulatedExecutor(log),
	}, log)
}

// TestEngine_ActivateDeactivate tests the registry lifecycle.
func TestEngine_ActivateDeactivate(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})

	err := e.Activate("Trend", types.StrategyTrend, nil, []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Len(t, e.ActiveKeys(), 2)

	e.Deactivate(types.StrategyTrend, []string{"bitcoin"})
	keys := e.ActiveKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, "ethereum", keys[0].Symbol)

	// Deactivating a missing key is a no-op.
	e.Deactivate(types.StrategyTrend, []string{"solana"})
	assert.Len(t, e.ActiveKeys(), 1)
}

// TestEngine_Activate_UnknownType tests fail-fast on catalog misses.
func TestEngine_Activate_UnknownType(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})

	err := e.Activate("Custom", types.StrategyType("momentum"), nil, []string{"bitcoin"})

	assert.ErrorIs(t, err, strategy.ErrUnknownStrategy)
	assert.Empty(t, e.ActiveKeys())
}

// TestEngine_Activate_NoSymbols tests the empty-symbol guard.
func TestEngine_Activate_NoSymbols(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})

	assert.Error(t, e.Activate("Trend", types.StrategyTrend, nil, nil))
}

// TestEngine_OptimalStrategy tests regime-driven recommendation.
func TestEngine_OptimalStrategy(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})

	template, confidence := e.OptimalStrategy(context.Background(), "bitcoin")

	// A clean uptrend recommends trend following.
	assert.Equal(t, types.StrategyTrend, template.Type)
	assert.Greater(t, confidence, 0.0)
}

// TestEngine_GetSignal_AutoActivates tests that asking for a signal with no
// active strategy activates the regime-optimal one first.
func TestEngine_GetSignal_AutoActivates(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})
	require.Empty(t, e.ActiveKeys())

	_, err := e.GetSignal(context.Background(), "bitcoin", 130)

	require.NoError(t, err)
	keys := e.ActiveKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, "bitcoin", keys[0].Symbol)
}

// TestEngine_GetSignal_ConcurrentCallers tests that concurrent signal
// requests against one shared instance are safe. The grid strategy memoizes
// per-symbol state, so evaluation has to be serialized by the engine.
func TestEngine_GetSignal_ConcurrentCallers(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})
	require.NoError(t, e.Activate("Grid", types.StrategyMeanRevert, nil, []string{"bitcoin"}))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := e.GetSignal(context.Background(), "bitcoin", 100+float64(j)); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

// TestEngine_GetSignal_StablePickAcrossTypes tests that when several
// strategy types are active for one symbol, repeated lookups always address
// the same instance instead of following map iteration order.
func TestEngine_GetSignal_StablePickAcrossTypes(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})
	require.NoError(t, e.Activate("Grid", types.StrategyMeanRevert, nil, []string{"bitcoin"}))
	require.NoError(t, e.Activate("Trend", types.StrategyTrend, nil, []string{"bitcoin"}))

	for i := 0; i < 25; i++ {
		key, ok := e.keyForSymbol("bitcoin")
		require.True(t, ok)
		assert.Equal(t, types.StrategyMeanRevert, key.Type)

		inst, ok := e.strategyForSymbol("bitcoin")
		require.True(t, ok)
		assert.Equal(t, types.StrategyMeanRevert, inst.Type())
	}
}

// TestEngine_ExecuteSignal tests simulated execution and performance
// attribution.
func TestEngine_ExecuteSignal(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})
	require.NoError(t, e.Activate("Trend", types.StrategyTrend, nil, []string{"bitcoin"}))

	buy := &types.Signal{
		Action:    types.ActionBuy,
		Symbol:    "bitcoin",
		Price:     100,
		Quantity:  2,
		Timestamp: time.Now(),
	}
	result, err := e.ExecuteSignal(context.Background(), buy, true)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Simulated)

	sell := &types.Signal{
		Action:    types.ActionSell,
		Symbol:    "bitcoin",
		Price:     110,
		Quantity:  2,
		Timestamp: time.Now(),
	}
	_, err = e.ExecuteSignal(context.Background(), sell, true)
	require.NoError(t, err)

	metrics, ok := e.Performance(types.StrategyTrend, "bitcoin")
	require.True(t, ok)
	assert.Equal(t, 2, metrics.Trades)
	assert.Equal(t, 1, metrics.Wins)
	assert.InDelta(t, 20.0, metrics.ProfitLoss, 1e-9)
}

// TestEngine_ExecuteSignal_NilSignal tests the nil guard.
func TestEngine_ExecuteSignal_NilSignal(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})

	_, err := e.ExecuteSignal(context.Background(), nil, true)

	assert.Error(t, err)
}

// TestEngine_UpdateRiskSettings tests that a risk update reaches active
// instances.
func TestEngine_UpdateRiskSettings(t *testing.T) {
	e := newTestEngine(&stubProvider{series: risingSeries(60)})
	require.NoError(t, e.Activate("Trend", types.StrategyTrend, nil, []string{"bitcoin"}))

	custom := strategy.RiskSettings{
		MaxPositionSize:     25,
		StopLoss:            2,
		TakeProfit:          6,
		MaxConcurrentTrades: 1,
		EmergencyStop:       20,
	}
	e.UpdateRiskSettings(custom)

	assert.Equal(t, custom, e.RiskSettings())
	inst, ok := e.strategyForSymbol("bitcoin")
	require.True(t, ok)
	assert.Equal(t, custom, inst.RiskSettings())
}

// TestEngine_Backtest tests a full run through the facade.
func TestEngine_Backtest(t *testing.T) {
	series := risingSeries(120)
	e := newTestEngine(&stubProvider{series: series})

	result, err := e.Backtest(context.Background(), BacktestRequest{
		StrategyType:   types.StrategyTrend,
		Params:         nil,
		Symbol:         "bitcoin",
		Start:          series[0].Time,
		End:            series[len(series)-1].Time,
		InitialCapital: 10000,
	})

	require.NoError(t, err)
	assert.Equal(t, types.StrategyTrend, result.StrategyType)
	assert.NotEmpty(t, result.Trades)
	assert.Greater(t, result.FinalCapital, 10000.0)
}

// TestEngine_Backtest_Deterministic tests that identical arbitrage requests
// replay identically, including the simulated venue draws.
func TestEngine_Backtest_Deterministic(t *testing.T) {
	series := risingSeries(120)
	e := newTestEngine(&stubProvider{series: series})

	req := BacktestRequest{
		StrategyType:   types.StrategyArbitrage,
		Params:         strategy.ArbitrageParams{MinSpread: 0.5},
		Symbol:         "bitcoin",
		Start:          series[0].Time,
		End:            series[len(series)-1].Time,
		InitialCapital: 10000,
	}

	first, err := e.Backtest(context.Background(), req)
	require.NoError(t, err)
	second, err := e.Backtest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestEngine_Backtest_InvalidRequest tests the fail-fast validations.
func TestEngine_Backtest_InvalidRequest(t *testing.T) {
	series := risingSeries(120)
	e := newTestEngine(&stubProvider{series: series})
	start, end := series[0].Time, series[len(series)-1].Time

	_, err := e.Backtest(context.Background(), BacktestRequest{
		StrategyType:   types.StrategyType("momentum"),
		Symbol:         "bitcoin",
		Start:          start,
		End:            end,
		InitialCapital: 10000,
	})
	assert.ErrorIs(t, err, strategy.ErrUnknownStrategy)

	_, err = e.Backtest(context.Background(), BacktestRequest{
		StrategyType:   types.StrategyTrend,
		Symbol:         "bitcoin",
		Start:          end,
		End:            start,
		InitialCapital: 10000,
	})
	assert.Error(t, err)

	_, err = e.Backtest(context.Background(), BacktestRequest{
		StrategyType:   types.StrategyTrend,
		Symbol:         "bitcoin",
		Start:          start,
		End:            end,
		InitialCapital: 0,
	})
	assert.Error(t, err)
}

// TestEngine_Backtest_ProviderFailure tests that data errors surface
// instead of degrading silently.
func TestEngine_Backtest_ProviderFailure(t *testing.T) {
	e := newTestEngine(&stubProvider{fail: true})

	_, err := e.Backtest(context.Background(), BacktestRequest{
		StrategyType:   types.StrategyTrend,
		Symbol:         "bitcoin",
		Start:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		InitialCapital: 10000,
	})

	assert.Error(t, err)
}
