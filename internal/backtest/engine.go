package backtest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// MinLookback is the number of bars required before indicator-derived
// signals are generated, so every indicator has a stable window.
const MinLookback = 50

// Config describes one backtest run.
type Config struct {
	Symbol         string
	InitialCapital float64
	Start          time.Time
	End            time.Time
	// Lookback overrides MinLookback when positive.
	Lookback int
}

// Period is the simulated date range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Result is the complete output of one simulation run.
type Result struct {
	StrategyType   types.StrategyType  `json:"strategy_type"`
	StrategyParams strategy.Params     `json:"strategy_params"`
	Symbol         string              `json:"symbol"`
	Period         Period              `json:"period"`
	InitialCapital float64             `json:"initial_capital"`
	FinalCapital   float64             `json:"final_capital"`
	TotalReturn    float64             `json:"total_return"`
	Trades         []types.TradeRecord `json:"trades"`
	EquityCurve    []types.EquityPoint `json:"equity_curve"`
	Metrics        Metrics             `json:"metrics"`
}

// Simulator replays a price series through a strategy, maintaining position
// state and applying the strategy's risk rules. Each Simulator owns its
// strategy instance for the duration of a run and must not be shared.
type Simulator struct {
	strat strategy.Strategy
	ind   *indicators.Engine
	cfg   Config
	log   zerolog.Logger

	// run state
	capital    float64
	inPosition bool
	entryPrice float64
	entryQty   float64
	tradeSeq   int
	trades     []types.TradeRecord
	equity     []types.EquityPoint
}

// NewSimulator creates a simulator for one run.
func NewSimulator(strat strategy.Strategy, ind *indicators.Engine, cfg Config, log zerolog.Logger) *Simulator {
	if cfg.Lookback <= 0 {
		cfg.Lookback = MinLookback
	}
	return &Simulator{
		strat: strat,
		ind:   ind,
		cfg:   cfg,
		log:   log.With().Str("component", "backtest").Str("symbol", cfg.Symbol).Logger(),
	}
}

// Run replays the series bar by bar. Bars are processed strictly in
// chronological order; the series must already be time-sorted. A series too
// short to clear the lookback window produces an empty (but valid) result
// rather than an error, so partial data never fails the pipeline.
func (s *Simulator) Run(series types.PriceSeries) (*Result, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("backtest %s: %w", s.cfg.Symbol, err)
	}

	s.capital = s.cfg.InitialCapital
	s.inPosition = false
	s.tradeSeq = 0
	s.trades = make([]types.TradeRecord, 0, 64)
	s.equity = []types.EquityPoint{{Time: s.cfg.Start, Value: s.cfg.InitialCapital}}

	values := series.Values()
	risk := s.strat.RiskSettings()

	for i := s.cfg.Lookback; i < len(series); i++ {
		price := series[i].Value
		barTime := series[i].Time
		window := values[i-s.cfg.Lookback : i+1]

		snapshot := s.ind.Snapshot(s.cfg.Symbol, window, barTime)
		signal := s.strat.Evaluate(price, snapshot)

		exitedThisBar := false
		if signal != nil {
			switch {
			case signal.Action == types.ActionBuy && !s.inPosition:
				s.openPosition(price, barTime, risk)
			case signal.Action == types.ActionSell && s.inPosition:
				s.closePosition(price, barTime, types.TriggerSignal)
				exitedThisBar = true
			}
		}

		// Risk exits fire at most once per bar and take precedence over
		// any same-bar signal that would re-enter.
		if s.inPosition && !exitedThisBar && price <= risk.StopLossPrice(s.entryPrice) {
			s.closePosition(price, barTime, types.TriggerStopLoss)
			exitedThisBar = true
		}
		if s.inPosition && !exitedThisBar && price >= risk.TakeProfitPrice(s.entryPrice) {
			s.closePosition(price, barTime, types.TriggerTakeProfit)
		}
	}

	// Every buy must be matched by a terminating sell: force-close any
	// position still open at the end of the series.
	if s.inPosition {
		last := series[len(series)-1]
		s.closePosition(last.Value, last.Time, types.TriggerEndOfPeriod)
	}

	result := &Result{
		StrategyType:   s.strat.Type(),
		StrategyParams: s.strat.Params(),
		Symbol:         s.cfg.Symbol,
		Period:         Period{Start: s.cfg.Start, End: s.cfg.End},
		InitialCapital: s.cfg.InitialCapital,
		FinalCapital:   s.capital,
		Trades:         s.trades,
		EquityCurve:    s.equity,
		Metrics:        ComputeMetrics(s.trades, s.equity),
	}
	if s.cfg.InitialCapital != 0 {
		result.TotalReturn = (s.capital - s.cfg.InitialCapital) / s.cfg.InitialCapital * 100
	}

	s.log.Debug().
		Int("trades", len(result.Trades)).
		Float64("final_capital", result.FinalCapital).
		Float64("total_return", result.TotalReturn).
		Msg("backtest run complete")

	return result, nil
}

// openPosition moves FLAT -> OPEN, sizing the position from available
// capital and the strategy's risk settings.
func (s *Simulator) openPosition(price float64, at time.Time, risk strategy.RiskSettings) {
	qty := risk.PositionSize(price, s.capital)
	if qty <= 0 {
		return
	}
	value := qty * price

	s.entryPrice = price
	s.entryQty = qty
	s.inPosition = true
	s.capital -= value

	s.record(types.TradeRecord{
		ID:       s.nextTradeID(),
		Symbol:   s.cfg.Symbol,
		Action:   types.ActionBuy,
		Price:    price,
		Quantity: qty,
		Value:    value,
		Time:     at,
		Strategy: s.strat.Type(),
		Trigger:  types.TriggerSignal,
	}, at)
}

// closePosition moves OPEN -> FLAT, realizing profit or loss against the
// tracked entry.
func (s *Simulator) closePosition(price float64, at time.Time, trigger types.TradeTrigger) {
	exitValue := s.entryQty * price
	profitLoss := exitValue - s.entryQty*s.entryPrice

	s.capital += exitValue
	s.inPosition = false

	s.record(types.TradeRecord{
		ID:         s.nextTradeID(),
		Symbol:     s.cfg.Symbol,
		Action:     types.ActionSell,
		Price:      price,
		Quantity:   s.entryQty,
		Value:      exitValue,
		ProfitLoss: profitLoss,
		Realized:   true,
		Time:       at,
		Strategy:   s.strat.Type(),
		Trigger:    trigger,
	}, at)
}

func (s *Simulator) record(trade types.TradeRecord, at time.Time) {
	s.trades = append(s.trades, trade)
	s.equity = append(s.equity, types.EquityPoint{Time: at, Value: s.capital})
}

// nextTradeID issues sequential ids so two identical runs produce
// byte-identical trade logs.
func (s *Simulator) nextTradeID() string {
	s.tradeSeq++
	return fmt.Sprintf("trade_%06d", s.tradeSeq)
}
