package indicators

// RSI computes the Relative Strength Index with Wilder smoothing.
type RSI struct {
	period int
}

// NewRSI creates an RSI indicator for the given period.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

// Calculate returns the RSI of the price window, always in [0, 100].
//
// The first period deltas seed the average gain/loss; the remaining deltas
// are folded in with Wilder smoothing: avg = (avg*(period-1) + new) / period.
// Returns 100 when the window holds no losses and 50 as the neutral default
// when fewer than period+1 prices are available.
func (r *RSI) Calculate(prices []float64) float64 {
	if len(prices) < r.period+1 {
		return 50
	}

	gains := make([]float64, len(prices)-1)
	losses := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	avgGain := mean(gains[:r.period])
	avgLoss := mean(losses[:r.period])

	for i := r.period; i < len(gains); i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// Period returns the configured lookback period.
func (r *RSI) Period() int {
	return r.period
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
