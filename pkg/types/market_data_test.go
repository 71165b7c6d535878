package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(values ...float64) PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(PriceSeries, len(values))
	for i, v := range values {
		series[i] = PricePoint{Time: start.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return series
}

// TestPriceSeries_Validate tests the chronological-order check.
func TestPriceSeries_Validate(t *testing.T) {
	assert.NoError(t, seriesOf(1, 2, 3).Validate())
	assert.NoError(t, PriceSeries{}.Validate())

	unordered := seriesOf(1, 2, 3)
	unordered[0], unordered[2] = unordered[2], unordered[0]
	assert.ErrorIs(t, unordered.Validate(), ErrUnorderedSeries)
}

// TestPriceSeries_Values tests the value projection.
func TestPriceSeries_Values(t *testing.T) {
	assert.Equal(t, []float64{10, 20, 30}, seriesOf(10, 20, 30).Values())
	assert.Empty(t, PriceSeries{}.Values())
}

// TestPriceSeries_Last tests the most-recent accessor.
func TestPriceSeries_Last(t *testing.T) {
	last, ok := seriesOf(10, 20, 30).Last()
	require.True(t, ok)
	assert.Equal(t, 30.0, last.Value)

	_, ok = PriceSeries{}.Last()
	assert.False(t, ok)
}

// TestPriceSeries_FilterRange tests the inclusive time window.
func TestPriceSeries_FilterRange(t *testing.T) {
	series := seriesOf(1, 2, 3, 4, 5)

	filtered := series.FilterRange(series[1].Time, series[3].Time)

	require.Len(t, filtered, 3)
	assert.Equal(t, 2.0, filtered[0].Value)
	assert.Equal(t, 4.0, filtered[2].Value)
}

// TestHistoricalData_Empty tests the no-data predicate.
func TestHistoricalData_Empty(t *testing.T) {
	var missing *HistoricalData
	assert.True(t, missing.Empty())
	assert.True(t, (&HistoricalData{}).Empty())
	assert.False(t, (&HistoricalData{Prices: seriesOf(1)}).Empty())
}

// TestParseStrategyType tests catalog validation.
func TestParseStrategyType(t *testing.T) {
	for _, valid := range []string{"trend", "mean_reversion", "market_making", "arbitrage"} {
		typ, err := ParseStrategyType(valid)
		require.NoError(t, err)
		assert.Equal(t, StrategyType(valid), typ)
	}

	_, err := ParseStrategyType("momentum")
	assert.Error(t, err)
}

// TestAction_String tests signal direction labels.
func TestAction_String(t *testing.T) {
	assert.Equal(t, "buy", ActionBuy.String())
	assert.Equal(t, "sell", ActionSell.String())
	assert.Equal(t, "neutral", ActionHold.String())
}
