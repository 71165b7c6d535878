// Package engine wires the analysis, strategy, optimization, simulation,
// and execution layers behind one facade. This is the surface the HTTP
// layer (out of scope here) talks to.
package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/analysis"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/exchange"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/monitoring"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/optimizer"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/performance"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/regime"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/data"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// Config collects the engine's collaborators.
type Config struct {
	Provider data.Provider
	Analyzer *analysis.Analyzer
	// Simulated handles paper fills; required.
	Simulated exchange.Executor
	// Live handles real fills; optional, execution falls back to
	// simulation when absent.
	Live exchange.Executor
	// Risk is the shared risk record applied to activated strategies.
	Risk strategy.RiskSettings
}

// Engine manages the active strategy registry and exposes market analysis,
// signal generation, execution, and backtesting.
//
// Active instances are keyed by (strategy type, symbol); at most one live
// instance exists per key, and every activation constructs a fresh instance
// so no strategy state is shared across symbols or runs.
type Engine struct {
	provider  data.Provider
	analyzer  *analysis.Analyzer
	simulated exchange.Executor
	live      exchange.Executor
	tracker   *performance.Tracker
	log       zerolog.Logger

	mu     sync.RWMutex
	active map[types.StrategyKey]strategy.Strategy
	risk   strategy.RiskSettings
}

// New creates a strategy engine.
func New(cfg Config, log zerolog.Logger) *Engine {
	risk := cfg.Risk
	if risk == (strategy.RiskSettings{}) {
		risk = strategy.DefaultRiskSettings()
	}
	return &Engine{
		provider:  cfg.Provider,
		analyzer:  cfg.Analyzer,
		simulated: cfg.Simulated,
		live:      cfg.Live,
		tracker:   performance.NewTracker(log),
		log:       log.With().Str("component", "engine").Logger(),
		active:    make(map[types.StrategyKey]strategy.Strategy),
		risk:      risk,
	}
}

// AnalyzeMarket classifies the market regime for a symbol. It never fails;
// see analysis.Analyzer for the degradation rules.
func (e *Engine) AnalyzeMarket(ctx context.Context, symbol string) regime.Classification {
	return e.analyzer.AnalyzeMarket(ctx, symbol)
}

// AnalyzeTechnicals returns the indicator snapshot and overall signal for a
// symbol.
func (e *Engine) AnalyzeTechnicals(ctx context.Context, symbol string) *analysis.TechnicalAnalysis {
	return e.analyzer.AnalyzeTechnicals(ctx, symbol)
}

// Activate creates and registers a strategy instance for every symbol.
// A fresh instance is constructed per symbol so instances are never shared.
func (e *Engine) Activate(name string, typ types.StrategyType, params strategy.Params, symbols []string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("activate %s: no symbols given", typ)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, symbol := range symbols {
		inst, err := strategy.New(name, typ, params, strategy.WithRiskSettings(e.risk))
		if err != nil {
			return fmt.Errorf("activate %s for %s: %w", typ, symbol, err)
		}
		key := types.StrategyKey{Type: typ, Symbol: symbol}
		e.active[key] = inst
		e.tracker.Register(key)
	}

	monitoring.SetActiveStrategies(len(e.active))
	e.log.Info().Str("strategy", name).Str("type", string(typ)).Strs("symbols", symbols).Msg("strategy activated")
	return nil
}

// Deactivate removes the strategy instances for the given symbols. Missing
// keys are ignored; accumulated performance counters are kept.
func (e *Engine) Deactivate(typ types.StrategyType, symbols []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, symbol := range symbols {
		delete(e.active, types.StrategyKey{Type: typ, Symbol: symbol})
	}
	monitoring.SetActiveStrategies(len(e.active))
	e.log.Info().Str("type", string(typ)).Strs("symbols", symbols).Msg("strategy deactivated")
}

// ActiveKeys returns the currently active registry keys.
func (e *Engine) ActiveKeys() []types.StrategyKey {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]types.StrategyKey, 0, len(e.active))
	for k := range e.active {
		keys = append(keys, k)
	}
	return keys
}

// OptimalStrategy recommends and tunes a strategy for the symbol's current
// market regime.
func (e *Engine) OptimalStrategy(ctx context.Context, symbol string) (strategy.Template, float64) {
	classification := e.analyzer.AnalyzeMarket(ctx, symbol)
	template := strategy.TemplateFor(classification.Regime)
	template.Params = optimizer.Optimize(
		template.Type,
		template.Params,
		classification.Volatility,
		classification.TrendStrength,
	)
	return template, classification.Confidence
}

// GetSignal evaluates the active strategy for a symbol at the given price.
// When no strategy is active for the symbol, the regime-optimal one is
// activated first. Returns nil when the strategy has no opinion.
func (e *Engine) GetSignal(ctx context.Context, symbol string, price float64) (*types.Signal, error) {
	if _, ok := e.strategyForSymbol(symbol); !ok {
		template, _ := e.OptimalStrategy(ctx, symbol)
		if err := e.Activate(template.Name, template.Type, template.Params, []string{symbol}); err != nil {
			return nil, err
		}
	}

	technicals := e.analyzer.AnalyzeTechnicals(ctx, symbol)

	// Strategies keep per-symbol memos, so evaluating a shared registry
	// instance needs the write lock, not just a read lock.
	e.mu.Lock()
	key, inst, ok := lookupSymbol(e.active, symbol)
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("get signal: no active strategy for %s", symbol)
	}
	signal := inst.Evaluate(price, &technicals.Snapshot)
	e.mu.Unlock()

	if signal != nil {
		monitoring.SignalGenerated(string(key.Type), signal.Action.String())
	}
	return signal, nil
}

// ExecuteSignal routes a signal to the simulated or live executor and folds
// the fill into the performance counters for the owning strategy key.
func (e *Engine) ExecuteSignal(ctx context.Context, signal *types.Signal, simulate bool) (*types.ExecutionResult, error) {
	if signal == nil {
		return nil, fmt.Errorf("execute: nil signal")
	}

	executor := e.simulated
	mode := "simulated"
	if !simulate && e.live != nil {
		executor = e.live
		mode = "live"
	}

	result, err := executor.Execute(ctx, signal)
	monitoring.ExecutionRecorded(mode, err == nil && result != nil && result.Success)
	if err != nil {
		return nil, err
	}

	if key, ok := e.keyForSymbol(signal.Symbol); ok {
		e.tracker.RecordFill(key, signal.Action, result.Price, result.Quantity, result.Timestamp)
	}
	return result, nil
}

// Performance returns the cumulative counters for one strategy key.
func (e *Engine) Performance(typ types.StrategyType, symbol string) (performance.Metrics, bool) {
	return e.tracker.Metrics(types.StrategyKey{Type: typ, Symbol: symbol})
}

// UpdateRiskSettings replaces the shared risk record and pushes it to every
// active instance.
func (e *Engine) UpdateRiskSettings(settings strategy.RiskSettings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.risk = settings
	for _, inst := range e.active {
		inst.SetRiskSettings(settings)
	}
}

// RiskSettings returns the engine's shared risk record.
func (e *Engine) RiskSettings() strategy.RiskSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.risk
}

func (e *Engine) strategyForSymbol(symbol string) (strategy.Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, inst, ok := lookupSymbol(e.active, symbol)
	return inst, ok
}

func (e *Engine) keyForSymbol(symbol string) (types.StrategyKey, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	key, _, ok := lookupSymbol(e.active, symbol)
	return key, ok
}

// lookupSymbol picks the active instance for a symbol. When several types
// are active for one symbol the lexicographically smallest type wins, so
// repeated calls always address the same instance regardless of map
// iteration order. Callers hold e.mu.
func lookupSymbol(active map[types.StrategyKey]strategy.Strategy, symbol string) (types.StrategyKey, strategy.Strategy, bool) {
	var (
		best  types.StrategyKey
		inst  strategy.Strategy
		found bool
	)
	for key, s := range active {
		if key.Symbol != symbol {
			continue
		}
		if !found || key.Type < best.Type {
			best, inst, found = key, s, true
		}
	}
	return best, inst, found
}

// backtestSeed derives a stable seed for the simulated arbitrage venue so
// identical backtest requests replay identically.
func backtestSeed(symbol string, start, end time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	_, _ = h.Write([]byte(start.UTC().Format(time.RFC3339)))
	_, _ = h.Write([]byte(end.UTC().Format(time.RFC3339)))
	return int64(h.Sum64())
}
