package indicators

// MACDValue holds the three outputs of a MACD calculation.
type MACDValue struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MACD computes Moving Average Convergence Divergence.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a MACD indicator with the given fast, slow, and signal
// EMA periods.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// Calculate returns the MACD line, signal line, and histogram for the price
// window. The signal line is the EMA of the MACD line history, where each
// historical value is recomputed over the trailing window ending at that bar.
//
// Fewer than max(fast, slow)+signal prices yields an all-zero result rather
// than an error.
func (m *MACD) Calculate(prices []float64) MACDValue {
	required := m.slowPeriod
	if m.fastPeriod > required {
		required = m.fastPeriod
	}
	required += m.signalPeriod

	if len(prices) < required {
		return MACDValue{}
	}

	fast := NewEMA(m.fastPeriod)
	slow := NewEMA(m.slowPeriod)

	macdLine := fast.Calculate(prices) - slow.Calculate(prices)

	// Rebuild the MACD history from the first bar where the slow EMA is
	// defined, then smooth it for the signal line.
	history := make([]float64, 0, len(prices)-m.slowPeriod+1)
	for i := m.slowPeriod - 1; i < len(prices); i++ {
		window := prices[:i+1]
		history = append(history, fast.Calculate(window)-slow.Calculate(window))
	}
	signalLine := NewEMA(m.signalPeriod).Calculate(history)

	return MACDValue{
		Value:     macdLine,
		Signal:    signalLine,
		Histogram: macdLine - signalLine,
	}
}
