// Package exchange is the execution boundary: it turns accepted signals
// into execution records, either simulated or against a real venue.
package exchange

import (
	"context"

	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// Executor accepts a trade signal and returns an execution record. The
// engine assumes nothing about the result beyond success, fill price, and
// timestamp.
type Executor interface {
	// Execute places the trade described by the signal.
	Execute(ctx context.Context, signal *types.Signal) (*types.ExecutionResult, error)

	// Name identifies the execution backend.
	Name() string
}
