// Package data supplies historical market data to the engine, from a remote
// provider or local files.
package data

import (
	"context"

	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// Provider returns the price history for a symbol over a trailing number of
// days. Implementations may serve stale or partial data; callers must
// tolerate short or empty series.
type Provider interface {
	HistoricalData(ctx context.Context, symbol string, days int) (*types.HistoricalData, error)
}
