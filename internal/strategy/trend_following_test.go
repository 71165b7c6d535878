package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

func snapshotAt(symbol string, price, emaShort, emaMedium float64) *indicators.Snapshot {
	return &indicators.Snapshot{
		Symbol:    symbol,
		Price:     price,
		EMA:       indicators.EMASet{Short: emaShort, Medium: emaMedium, Long: emaMedium},
		RSI:       50,
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// TestTrendFollowing_Evaluate_BullishCrossover tests the long entry rule.
func TestTrendFollowing_Evaluate_BullishCrossover(t *testing.T) {
	s := NewTrendFollowing("Trend", DefaultTrendParams())
	snap := snapshotAt("bitcoin", 105, 103, 100)

	signal := s.Evaluate(105, snap)

	require.NotNil(t, signal)
	assert.Equal(t, types.ActionBuy, signal.Action)
	assert.Equal(t, "bitcoin", signal.Symbol)
	assert.Equal(t, 105.0, signal.Price)
	assert.Equal(t, snap.Timestamp, signal.Timestamp, "signal time must come from the snapshot, not the clock")
}

// TestTrendFollowing_Evaluate_BearishCrossover tests the exit rule.
func TestTrendFollowing_Evaluate_BearishCrossover(t *testing.T) {
	s := NewTrendFollowing("Trend", DefaultTrendParams())
	snap := snapshotAt("bitcoin", 95, 97, 100)

	signal := s.Evaluate(95, snap)

	require.NotNil(t, signal)
	assert.Equal(t, types.ActionSell, signal.Action)
}

// TestTrendFollowing_Evaluate_NoSignal tests the hold cases.
func TestTrendFollowing_Evaluate_NoSignal(t *testing.T) {
	s := NewTrendFollowing("Trend", DefaultTrendParams())

	// Bullish cross but price below the short EMA: unconfirmed.
	assert.Nil(t, s.Evaluate(99, snapshotAt("bitcoin", 99, 103, 100)))
	// EMAs stacked flat.
	assert.Nil(t, s.Evaluate(100, snapshotAt("bitcoin", 100, 100, 100)))
	// No snapshot at all.
	assert.Nil(t, s.Evaluate(100, nil))
}

// TestTrendFollowing_Identity tests type and parameter plumbing.
func TestTrendFollowing_Identity(t *testing.T) {
	params := TrendParams{ShortEMA: 5, LongEMA: 15}
	s := NewTrendFollowing("Fast Trend", params)

	assert.Equal(t, types.StrategyTrend, s.Type())
	assert.Equal(t, "Fast Trend", s.Name())
	assert.Equal(t, params, s.Params())
}
