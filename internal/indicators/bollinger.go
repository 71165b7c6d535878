package indicators

import "math"

// BollingerBands holds the three band values.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Bollinger computes Bollinger Bands: an SMA middle band with bands at a
// configured number of standard deviations.
type Bollinger struct {
	period     int
	deviations float64
}

// NewBollinger creates a Bollinger Bands indicator.
func NewBollinger(period int, deviations float64) *Bollinger {
	return &Bollinger{period: period, deviations: deviations}
}

// Calculate returns the bands over the last period prices. With insufficient
// history it returns a synthetic 2% band around the last price so strategies
// that key off band position still get a sane envelope.
func (b *Bollinger) Calculate(prices []float64) BollingerBands {
	if len(prices) == 0 {
		return BollingerBands{}
	}
	if len(prices) < b.period {
		price := prices[len(prices)-1]
		return BollingerBands{
			Upper:  price * 1.02,
			Middle: price,
			Lower:  price * 0.98,
		}
	}

	recent := prices[len(prices)-b.period:]
	middle := mean(recent)

	variance := 0.0
	for _, p := range recent {
		variance += (p - middle) * (p - middle)
	}
	stdDev := math.Sqrt(variance / float64(len(recent)))

	return BollingerBands{
		Upper:  middle + stdDev*b.deviations,
		Middle: middle,
		Lower:  middle - stdDev*b.deviations,
	}
}
