package types

import (
	"fmt"
	"time"
)

// Action represents the direction of a trade signal.
type Action int

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	case ActionHold:
		return "neutral"
	default:
		return "unknown"
	}
}

// StrategyType identifies a strategy family in the catalog.
type StrategyType string

const (
	StrategyTrend        StrategyType = "trend"
	StrategyMeanRevert   StrategyType = "mean_reversion"
	StrategyMarketMaking StrategyType = "market_making"
	StrategyArbitrage    StrategyType = "arbitrage"
)

// ParseStrategyType validates a strategy type string. Unknown types are
// rejected rather than silently defaulted.
func ParseStrategyType(s string) (StrategyType, error) {
	switch StrategyType(s) {
	case StrategyTrend, StrategyMeanRevert, StrategyMarketMaking, StrategyArbitrage:
		return StrategyType(s), nil
	}
	return "", fmt.Errorf("unknown strategy type %q", s)
}

// StrategyKey identifies one active strategy instance. At most one instance
// may be live per key.
type StrategyKey struct {
	Type   StrategyType
	Symbol string
}

func (k StrategyKey) String() string {
	return string(k.Type) + "/" + k.Symbol
}

// Signal is a candidate trade intent produced by a strategy. It is not yet
// a committed trade.
type Signal struct {
	Action    Action    `json:"action"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
