package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// SimulatedExecutor fills every signal at its quoted price without touching
// an exchange. This is the default execution mode.
type SimulatedExecutor struct {
	log zerolog.Logger
}

// NewSimulatedExecutor creates a paper-trading executor.
func NewSimulatedExecutor(log zerolog.Logger) *SimulatedExecutor {
	return &SimulatedExecutor{
		log: log.With().Str("component", "exchange").Str("executor", "simulated").Logger(),
	}
}

// Execute fills the signal at its own price and logs the simulated trade.
func (e *SimulatedExecutor) Execute(_ context.Context, signal *types.Signal) (*types.ExecutionResult, error) {
	if signal == nil {
		return nil, fmt.Errorf("simulated executor: nil signal")
	}

	e.log.Info().
		Str("symbol", signal.Symbol).
		Stringer("action", signal.Action).
		Float64("price", signal.Price).
		Float64("quantity", signal.Quantity).
		Msg("simulated fill")

	return &types.ExecutionResult{
		Success:   true,
		TradeID:   "trade_" + uuid.New().String(),
		Symbol:    signal.Symbol,
		Action:    signal.Action,
		Price:     signal.Price,
		Quantity:  signal.Quantity,
		Simulated: true,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Name identifies the backend.
func (e *SimulatedExecutor) Name() string { return "simulated" }
