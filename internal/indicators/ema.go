package indicators

// EMA computes the Exponential Moving Average over a trailing price window.
// The struct only carries configuration; Calculate is pure.
type EMA struct {
	period int
	alpha  float64
}

// NewEMA creates an EMA indicator for the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

// Calculate returns the EMA of the full price window. The first value is
// seeded with the simple average of the first period prices, then each
// following price is folded in with the standard smoothing factor.
//
// A window shorter than the period is a degenerate case, not an error: the
// last price is returned unchanged so downstream analysis keeps working.
func (e *EMA) Calculate(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	if len(prices) < e.period {
		return prices[len(prices)-1]
	}

	sum := 0.0
	for _, p := range prices[:e.period] {
		sum += p
	}
	ema := sum / float64(e.period)

	for _, p := range prices[e.period:] {
		ema = (p-ema)*e.alpha + ema
	}
	return ema
}

// Period returns the configured lookback period.
func (e *EMA) Period() int {
	return e.period
}
