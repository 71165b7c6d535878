package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

func bandsSnapshot(symbol string, price, middle, upper, lower, rsi float64) *indicators.Snapshot {
	return &indicators.Snapshot{
		Symbol:    symbol,
		Price:     price,
		RSI:       rsi,
		Bollinger: indicators.BollingerBands{Upper: upper, Middle: middle, Lower: lower},
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// TestMeanReversion_GridConstruction tests that ten levels split evenly
// around the middle band: five buys below, five sells above.
func TestMeanReversion_GridConstruction(t *testing.T) {
	s := NewMeanReversion("Grid", GridParams{Width: 2.0, Levels: 10})

	// Bands at 90/100/110: step = (110-90)/10 = 2.
	s.Evaluate(100, bandsSnapshot("bitcoin", 100, 100, 110, 90, 50))

	levels := s.GridLevels("bitcoin")
	require.Len(t, levels, 10)

	buys, sells := 0, 0
	for _, level := range levels {
		switch level.Action {
		case types.ActionBuy:
			buys++
			assert.Less(t, level.Price, 100.0)
		case types.ActionSell:
			sells++
			assert.Greater(t, level.Price, 100.0)
		}
	}
	assert.Equal(t, 5, buys)
	assert.Equal(t, 5, sells)

	// First buy line sits one step below the middle band.
	assert.InDelta(t, 98.0, levels[0].Price, 1e-9)
	// Deepest buy line sits five steps below.
	assert.InDelta(t, 90.0, levels[4].Price, 1e-9)
}

// TestMeanReversion_Evaluate_GridLineHit tests firing at a grid line.
func TestMeanReversion_Evaluate_GridLineHit(t *testing.T) {
	s := NewMeanReversion("Grid", GridParams{Width: 2.0, Levels: 10})
	s.Evaluate(100, bandsSnapshot("bitcoin", 100, 100, 110, 90, 50))

	// Price touching the first buy line (98) fires a buy.
	signal := s.Evaluate(98.0, bandsSnapshot("bitcoin", 98, 100, 110, 90, 50))
	require.NotNil(t, signal)
	assert.Equal(t, types.ActionBuy, signal.Action)

	// Price touching the first sell line (102) fires a sell.
	signal = s.Evaluate(102.0, bandsSnapshot("bitcoin", 102, 100, 110, 90, 50))
	require.NotNil(t, signal)
	assert.Equal(t, types.ActionSell, signal.Action)

	// Between lines, nothing fires.
	assert.Nil(t, s.Evaluate(99.0, bandsSnapshot("bitcoin", 99, 100, 110, 90, 50)))
}

// TestMeanReversion_Evaluate_RSIExtremes tests the band-break confirmations.
func TestMeanReversion_Evaluate_RSIExtremes(t *testing.T) {
	s := NewMeanReversion("Grid", DefaultGridParams())

	// Oversold below the lower band buys.
	signal := s.Evaluate(85, bandsSnapshot("bitcoin", 85, 100, 110, 90, 25))
	require.NotNil(t, signal)
	assert.Equal(t, types.ActionBuy, signal.Action)

	// Overbought above the upper band sells.
	signal = s.Evaluate(115, bandsSnapshot("bitcoin", 115, 100, 110, 90, 75))
	require.NotNil(t, signal)
	assert.Equal(t, types.ActionSell, signal.Action)

	// Oversold RSI alone, price inside the bands, is not enough.
	assert.Nil(t, s.Evaluate(99.1, bandsSnapshot("bitcoin", 99.1, 100, 110, 90, 25)))
}

// TestMeanReversion_GridMemoized tests that the grid anchors on the first
// bands seen for a symbol and ignores later band drift.
func TestMeanReversion_GridMemoized(t *testing.T) {
	s := NewMeanReversion("Grid", GridParams{Width: 2.0, Levels: 10})

	s.Evaluate(100, bandsSnapshot("bitcoin", 100, 100, 110, 90, 50))
	first := s.GridLevels("bitcoin")

	// Very different bands on the next evaluation must not rebuild.
	s.Evaluate(200, bandsSnapshot("bitcoin", 200, 200, 220, 180, 50))
	assert.Equal(t, first, s.GridLevels("bitcoin"))

	// A different symbol gets its own grid.
	s.Evaluate(200, bandsSnapshot("ethereum", 200, 200, 220, 180, 50))
	assert.NotEqual(t, first, s.GridLevels("ethereum"))
}
