package strategy

import (
	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/regime"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// Template is a recommended strategy configuration for a market regime.
type Template struct {
	Name   string             `json:"name"`
	Type   types.StrategyType `json:"type"`
	Params Params             `json:"parameters"`
}

// TemplateFor maps a market regime to its recommended strategy template.
// The mapping is a fixed lookup: trending markets get trend following,
// sideways markets get the grid, volatile markets get market making, and
// anything unclassified falls back to conservative trend following on the
// long EMA pair.
func TemplateFor(r regime.Regime) Template {
	switch r {
	case regime.RegimeTrending:
		return Template{
			Name:   "Trend Following",
			Type:   types.StrategyTrend,
			Params: TrendParams{ShortEMA: indicators.DefaultEMAShort, LongEMA: indicators.DefaultEMAMedium},
		}
	case regime.RegimeSideways:
		return Template{
			Name:   "Mean Reversion",
			Type:   types.StrategyMeanRevert,
			Params: DefaultGridParams(),
		}
	case regime.RegimeVolatile:
		return Template{
			Name:   "Market Making",
			Type:   types.StrategyMarketMaking,
			Params: DefaultMarketMakingParams(),
		}
	default:
		return Template{
			Name:   "Conservative",
			Type:   types.StrategyTrend,
			Params: TrendParams{ShortEMA: indicators.DefaultEMAShort, LongEMA: indicators.DefaultEMALong},
		}
	}
}
