package types

import (
	"errors"
	"time"
)

// PricePoint is a single observation of a market value at a point in time.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// PriceSeries is a chronologically ordered sequence of price points.
// Insertion order is assumed to be time order; Validate checks it.
type PriceSeries []PricePoint

// ErrUnorderedSeries is returned when a series is not sorted by time.
var ErrUnorderedSeries = errors.New("price series is not in chronological order")

// Validate verifies the series is non-decreasing in time.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if s[i].Time.Before(s[i-1].Time) {
			return ErrUnorderedSeries
		}
	}
	return nil
}

// Values extracts the raw price values in series order.
func (s PriceSeries) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Last returns the most recent point. ok is false for an empty series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// FilterRange returns the points with start <= t <= end, preserving order.
func (s PriceSeries) FilterRange(start, end time.Time) PriceSeries {
	filtered := make(PriceSeries, 0, len(s))
	for _, p := range s {
		if p.Time.Before(start) || p.Time.After(end) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// HistoricalData is the shape returned by market-data providers: aligned
// series of prices, market caps, and traded volumes for one symbol.
type HistoricalData struct {
	Prices       PriceSeries `json:"prices"`
	MarketCaps   PriceSeries `json:"market_caps"`
	TotalVolumes PriceSeries `json:"total_volumes"`
}

// Empty reports whether the data carries no usable price history.
func (h *HistoricalData) Empty() bool {
	return h == nil || len(h.Prices) == 0
}
