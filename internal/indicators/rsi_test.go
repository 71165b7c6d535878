package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRSI_Calculate_Range tests that RSI stays within [0, 100] on mixed data.
func TestRSI_Calculate_Range(t *testing.T) {
	rsi := NewRSI(14)

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100.0 + float64(i%7) - float64(i%3)
	}

	value := rsi.Calculate(prices)

	assert.GreaterOrEqual(t, value, 0.0)
	assert.LessOrEqual(t, value, 100.0)
}

// TestRSI_Calculate_AllGains tests the no-loss boundary value.
func TestRSI_Calculate_AllGains(t *testing.T) {
	rsi := NewRSI(14)

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100.0 + float64(i)
	}

	assert.Equal(t, 100.0, rsi.Calculate(prices))
}

// TestRSI_Calculate_AllLosses tests that a steady decline drives RSI to zero.
func TestRSI_Calculate_AllLosses(t *testing.T) {
	rsi := NewRSI(14)

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100.0 - float64(i)
	}

	assert.InDelta(t, 0.0, rsi.Calculate(prices), 1e-9)
}

// TestRSI_Calculate_InsufficientData tests the neutral default.
func TestRSI_Calculate_InsufficientData(t *testing.T) {
	rsi := NewRSI(14)

	assert.Equal(t, 50.0, rsi.Calculate([]float64{100, 101, 102}))
	assert.Equal(t, 50.0, rsi.Calculate(nil))
}

// TestRSI_Calculate_OversoldCondition tests that heavy selling pressure
// pushes RSI below the oversold band.
func TestRSI_Calculate_OversoldCondition(t *testing.T) {
	rsi := NewRSI(14)

	prices := make([]float64, 30)
	prices[0] = 200.0
	for i := 1; i < len(prices); i++ {
		// Mostly down moves with small bounces.
		if i%5 == 0 {
			prices[i] = prices[i-1] + 0.5
		} else {
			prices[i] = prices[i-1] - 3.0
		}
	}

	assert.Less(t, rsi.Calculate(prices), DefaultRSIOversold)
}
