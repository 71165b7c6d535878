package regime

import "time"

// Regime is a coarse market-condition label derived from volatility and
// trend strength.
type Regime string

const (
	RegimeTrending Regime = "trending"
	RegimeSideways Regime = "sideways"
	RegimeVolatile Regime = "volatile"
	RegimeUnknown  Regime = "unknown"
)

// Classification is the output of regime detection for one symbol.
type Classification struct {
	Symbol        string    `json:"symbol"`
	Regime        Regime    `json:"regime"`
	Volatility    float64   `json:"volatility"`
	TrendStrength float64   `json:"trend_strength"`
	Confidence    float64   `json:"confidence"`
	Timestamp     time.Time `json:"timestamp"`
}

// Thresholds holds the classification boundaries.
type Thresholds struct {
	VolatilityLow  float64 `json:"volatility_low" yaml:"volatility_low"`
	VolatilityHigh float64 `json:"volatility_high" yaml:"volatility_high"`
	TrendWeak      float64 `json:"trend_weak" yaml:"trend_weak"`
	TrendStrong    float64 `json:"trend_strong" yaml:"trend_strong"`
}

// DefaultThresholds returns the standard regime boundaries: 0.5%/2%
// volatility and 20/50 trend strength.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VolatilityLow:  0.005,
		VolatilityHigh: 0.02,
		TrendWeak:      20,
		TrendStrong:    50,
	}
}
