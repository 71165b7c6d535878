package strategy

// Default risk-management settings shared by every strategy unless
// overridden at activation.
const (
	DefaultMaxPositionSize     = 10.0 // % of portfolio per position
	DefaultStopLoss            = 5.0  // % below entry
	DefaultTakeProfit          = 10.0 // % above entry
	DefaultMaxConcurrentTrades = 5
	DefaultEmergencyStop       = 15.0 // % portfolio drawdown
)

// RiskSettings is the shared risk-management record attached to every
// strategy instance. Percentages are expressed as whole numbers (5 = 5%).
type RiskSettings struct {
	MaxPositionSize     float64 `json:"max_position_size" yaml:"max_position_size"`
	StopLoss            float64 `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit          float64 `json:"take_profit" yaml:"take_profit"`
	MaxConcurrentTrades int     `json:"max_concurrent_trades" yaml:"max_concurrent_trades"`
	EmergencyStop       float64 `json:"emergency_stop_threshold" yaml:"emergency_stop_threshold"`
}

// DefaultRiskSettings returns the standard risk record.
func DefaultRiskSettings() RiskSettings {
	return RiskSettings{
		MaxPositionSize:     DefaultMaxPositionSize,
		StopLoss:            DefaultStopLoss,
		TakeProfit:          DefaultTakeProfit,
		MaxConcurrentTrades: DefaultMaxConcurrentTrades,
		EmergencyStop:       DefaultEmergencyStop,
	}
}

// PositionSize returns the quantity a position may hold at the given price
// for the available capital.
func (r RiskSettings) PositionSize(price, capital float64) float64 {
	if price <= 0 {
		return 0
	}
	return capital * (r.MaxPositionSize / 100) / price
}

// StopLossPrice returns the exit price at which a long entered at entry is
// force-closed.
func (r RiskSettings) StopLossPrice(entry float64) float64 {
	return entry * (1 - r.StopLoss/100)
}

// TakeProfitPrice returns the exit price at which a long entered at entry
// takes profit.
func (r RiskSettings) TakeProfitPrice(entry float64) float64 {
	return entry * (1 + r.TakeProfit/100)
}
