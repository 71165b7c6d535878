package regime

import (
	"math"
	"time"
)

// trendStrengthMinBars is the minimum window for a meaningful directional
// ratio; shorter windows report zero strength.
const trendStrengthMinBars = 14

// Detector classifies market conditions from a price window. It is a total,
// deterministic function of its inputs: the same prices always produce the
// same classification.
type Detector struct {
	thresholds Thresholds
}

// NewDetector creates a regime detector with the given thresholds.
func NewDetector(thresholds Thresholds) *Detector {
	return &Detector{thresholds: thresholds}
}

// Detect computes volatility and trend strength over the window and returns
// the full classification. An empty window yields RegimeUnknown with zero
// confidence.
func (d *Detector) Detect(symbol string, prices []float64, at time.Time) Classification {
	if len(prices) == 0 {
		return Classification{
			Symbol:    symbol,
			Regime:    RegimeUnknown,
			Timestamp: at,
		}
	}

	volatility := Volatility(prices)
	trendStrength := TrendStrength(prices)
	r := d.Classify(volatility, trendStrength)

	return Classification{
		Symbol:        symbol,
		Regime:        r,
		Volatility:    volatility,
		TrendStrength: trendStrength,
		Confidence:    d.Confidence(volatility, trendStrength, r),
		Timestamp:     at,
	}
}

// Classify maps (volatility, trend strength) to a regime. Rules are checked
// in fixed priority order: volatile first, then trending, else sideways.
func (d *Detector) Classify(volatility, trendStrength float64) Regime {
	switch {
	case volatility > d.thresholds.VolatilityHigh:
		return RegimeVolatile
	case trendStrength > d.thresholds.TrendStrong:
		return RegimeTrending
	default:
		return RegimeSideways
	}
}

// Confidence scores how strongly the inputs support the classification,
// on a 0-100 scale.
func (d *Detector) Confidence(volatility, trendStrength float64, r Regime) float64 {
	switch r {
	case RegimeVolatile:
		// The further volatility sits above the threshold, the stronger
		// the call, saturating at twice the threshold.
		ratio := math.Min(volatility/(d.thresholds.VolatilityHigh*2), 1)
		return ratio * 100
	case RegimeTrending:
		return math.Min(trendStrength, 100)
	case RegimeSideways:
		// Calm and directionless both have to hold for a confident
		// sideways call.
		volFactor := 1 - math.Min(volatility/d.thresholds.VolatilityHigh, 1)
		trendFactor := 1 - math.Min(trendStrength/d.thresholds.TrendStrong, 1)
		return volFactor * trendFactor * 100
	default:
		return 0
	}
}

// Thresholds returns the detector's classification boundaries.
func (d *Detector) Thresholds() Thresholds {
	return d.thresholds
}

// Volatility returns the standard deviation of simple returns over the
// window. Fewer than two prices yields zero.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}

	avg := 0.0
	for _, r := range returns {
		avg += r
	}
	avg /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - avg) * (r - avg)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance)
}

// TrendStrength returns the net directional-move ratio on a 0-100 scale:
// the share of the dominant direction among all non-flat price moves.
func TrendStrength(prices []float64) float64 {
	if len(prices) < trendStrengthMinBars {
		return 0
	}

	upMoves, downMoves := 0, 0
	for i := 1; i < len(prices); i++ {
		switch {
		case prices[i] > prices[i-1]:
			upMoves++
		case prices[i] < prices[i-1]:
			downMoves++
		}
	}

	total := upMoves + downMoves
	if total == 0 {
		return 0
	}

	dominant := upMoves
	if downMoves > dominant {
		dominant = downMoves
	}
	return float64(dominant) / float64(total) * 100
}
