package types

import "time"

// TradeTrigger records what caused a trade to be written to the log.
type TradeTrigger string

const (
	TriggerSignal      TradeTrigger = "signal"
	TriggerStopLoss    TradeTrigger = "stop_loss"
	TriggerTakeProfit  TradeTrigger = "take_profit"
	TriggerEndOfPeriod TradeTrigger = "end_of_period"
)

// TradeRecord is an immutable entry in a trade log. ProfitLoss is only
// meaningful on exits, where Realized is true.
type TradeRecord struct {
	ID         string       `json:"id"`
	Symbol     string       `json:"symbol"`
	Action     Action       `json:"action"`
	Price      float64      `json:"price"`
	Quantity   float64      `json:"quantity"`
	Value      float64      `json:"value"`
	ProfitLoss float64      `json:"profit_loss,omitempty"`
	Realized   bool         `json:"realized,omitempty"`
	Time       time.Time    `json:"time"`
	Strategy   StrategyType `json:"strategy"`
	Trigger    TradeTrigger `json:"trigger"`
}

// EquityPoint is one sample of simulated account value over time.
type EquityPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// ExecutionResult is the minimal contract the engine assumes from an
// execution service.
type ExecutionResult struct {
	Success   bool      `json:"success"`
	TradeID   string    `json:"trade_id"`
	Symbol    string    `json:"symbol"`
	Action    Action    `json:"action"`
	Price     float64   `json:"price,omitempty"`
	Quantity  float64   `json:"quantity"`
	Simulated bool      `json:"simulated"`
	Timestamp time.Time `json:"timestamp"`
}
