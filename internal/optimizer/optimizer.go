// Package optimizer tunes strategy parameters to current market conditions
// using a fixed rule table keyed on strategy type.
package optimizer

import (
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// Volatility bands the rule table keys on.
const (
	highVolatility     = 0.03
	moderateVolatility = 0.01
	strongTrend        = 70.0
)

// Optimize adjusts base parameters for the measured volatility and trend
// strength. Strategy types without a tuning rule pass their base parameters
// through unchanged. A nil base falls back to the type's defaults before
// tuning.
func Optimize(typ types.StrategyType, base strategy.Params, volatility, trendStrength float64) strategy.Params {
	switch typ {
	case types.StrategyTrend:
		return optimizeTrend(asTrend(base), volatility, trendStrength)
	case types.StrategyMeanRevert:
		return optimizeGrid(volatility)
	case types.StrategyMarketMaking:
		return optimizeMarketMaking(asMarketMaking(base), volatility)
	default:
		return base
	}
}

// optimizeTrend shortens the EMA pair under high volatility to react faster
// and lengthens it in strong trends to sit through noise.
func optimizeTrend(p strategy.TrendParams, volatility, trendStrength float64) strategy.TrendParams {
	switch {
	case volatility > highVolatility:
		return strategy.TrendParams{
			ShortEMA: maxInt(5, p.ShortEMA-2),
			LongEMA:  maxInt(15, p.LongEMA-5),
		}
	case trendStrength > strongTrend:
		return strategy.TrendParams{
			ShortEMA: p.ShortEMA + 1,
			LongEMA:  p.LongEMA + 2,
		}
	default:
		return p
	}
}

// optimizeGrid widens grid spacing and thins out levels as volatility rises,
// so the grid is not churned by noise.
func optimizeGrid(volatility float64) strategy.GridParams {
	width := 1.5
	levels := 12
	switch {
	case volatility > highVolatility:
		width, levels = 3.0, 6
	case volatility > moderateVolatility:
		width, levels = 2.0, 10
	}
	return strategy.GridParams{Width: width, Levels: levels}
}

// optimizeMarketMaking widens the quoted spread as volatility rises.
func optimizeMarketMaking(p strategy.MarketMakingParams, volatility float64) strategy.MarketMakingParams {
	spread := 0.3
	switch {
	case volatility > highVolatility:
		spread = 0.8
	case volatility > moderateVolatility:
		spread = 0.5
	}
	orderSize := p.OrderSize
	if orderSize == 0 {
		orderSize = strategy.DefaultMarketMakingParams().OrderSize
	}
	return strategy.MarketMakingParams{Spread: spread, OrderSize: orderSize}
}

func asTrend(base strategy.Params) strategy.TrendParams {
	if p, ok := base.(strategy.TrendParams); ok {
		return p
	}
	return strategy.DefaultTrendParams()
}

func asMarketMaking(base strategy.Params) strategy.MarketMakingParams {
	if p, ok := base.(strategy.MarketMakingParams); ok {
		return p
	}
	return strategy.DefaultMarketMakingParams()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
