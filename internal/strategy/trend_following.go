package strategy

import (
	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// TrendFollowing rides EMA crossovers: long when the short EMA sits above
// the medium EMA and price confirms, flat or short-exit when inverted.
type TrendFollowing struct {
	base
	params TrendParams
}

// NewTrendFollowing creates a trend-following strategy.
func NewTrendFollowing(name string, params TrendParams) *TrendFollowing {
	return &TrendFollowing{
		base:   base{name: name, risk: DefaultRiskSettings()},
		params: params,
	}
}

// Evaluate emits a buy when the short EMA is above the medium EMA and price
// trades above the short EMA, a sell on the mirrored condition, and nothing
// otherwise.
func (s *TrendFollowing) Evaluate(price float64, snapshot *indicators.Snapshot) *types.Signal {
	if snapshot == nil {
		return nil
	}

	shortEMA := snapshot.EMA.Short
	longEMA := snapshot.EMA.Medium

	if shortEMA > longEMA && price > shortEMA {
		return &types.Signal{
			Action:    types.ActionBuy,
			Symbol:    snapshot.Symbol,
			Price:     price,
			Quantity:  1, // sized by risk settings at execution
			Reason:    "EMA crossover (bullish)",
			Timestamp: snapshot.Timestamp,
		}
	}

	if shortEMA < longEMA && price < shortEMA {
		return &types.Signal{
			Action:    types.ActionSell,
			Symbol:    snapshot.Symbol,
			Price:     price,
			Quantity:  1,
			Reason:    "EMA crossover (bearish)",
			Timestamp: snapshot.Timestamp,
		}
	}

	return nil
}

func (s *TrendFollowing) Type() types.StrategyType { return types.StrategyTrend }

func (s *TrendFollowing) Params() Params { return s.params }
