package strategy

// Params is the closed set of per-strategy parameter records. Each strategy
// family has its own concrete type; the optimizer and factory dispatch on
// them with type switches instead of stringly-typed maps.
type Params interface {
	strategyParams()
}

// TrendParams configures the trend-following strategy.
type TrendParams struct {
	ShortEMA int `json:"short_ema" yaml:"short_ema"`
	LongEMA  int `json:"long_ema" yaml:"long_ema"`
}

func (TrendParams) strategyParams() {}

// DefaultTrendParams returns the standard 9/21 EMA pair.
func DefaultTrendParams() TrendParams {
	return TrendParams{ShortEMA: 9, LongEMA: 21}
}

// GridParams configures the mean-reversion grid strategy.
type GridParams struct {
	// Width is the grid width in percent, tuned by the optimizer.
	Width float64 `json:"width" yaml:"width"`
	// Levels is the number of grid lines spread between the Bollinger bands.
	Levels int `json:"levels" yaml:"levels"`
}

func (GridParams) strategyParams() {}

// DefaultGridParams returns a 10-level grid of width 2%.
func DefaultGridParams() GridParams {
	return GridParams{Width: 2.0, Levels: 10}
}

// MarketMakingParams configures the market-making strategy.
type MarketMakingParams struct {
	// Spread is the half-spread around mid price, in percent.
	Spread float64 `json:"spread" yaml:"spread"`
	// OrderSize is the order size in percent of capital.
	OrderSize float64 `json:"order_size" yaml:"order_size"`
}

func (MarketMakingParams) strategyParams() {}

// DefaultMarketMakingParams returns a 0.5% spread with 5% order size.
func DefaultMarketMakingParams() MarketMakingParams {
	return MarketMakingParams{Spread: 0.5, OrderSize: 5}
}

// ArbitrageParams configures the cross-venue arbitrage strategy.
type ArbitrageParams struct {
	// MinSpread is the smallest cross-venue spread worth acting on, in percent.
	MinSpread float64 `json:"min_spread" yaml:"min_spread"`
}

func (ArbitrageParams) strategyParams() {}

// DefaultArbitrageParams returns a 0.5% minimum spread.
func DefaultArbitrageParams() ArbitrageParams {
	return ArbitrageParams{MinSpread: 0.5}
}
