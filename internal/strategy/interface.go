package strategy

import (
	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// Strategy is the common contract for all signal generators in the catalog.
//
// Evaluate consumes the current price and an indicator snapshot and returns
// a trade intent, or nil when the strategy has nothing to say. A nil or
// partial snapshot must yield nil rather than an error. Implementations may
// keep per-symbol memos (grid levels); because of that, one instance must
// not be shared across concurrent callers; each backtest run or live
// evaluation loop owns its own instance.
type Strategy interface {
	// Evaluate returns a trade signal for the current price, or nil.
	Evaluate(price float64, snapshot *indicators.Snapshot) *types.Signal

	// Type identifies the strategy family.
	Type() types.StrategyType

	// Name returns the display name given at activation.
	Name() string

	// Params returns the strategy's current parameter set.
	Params() Params

	// SetRiskSettings replaces the shared risk-settings record.
	SetRiskSettings(settings RiskSettings)

	// RiskSettings returns the current risk-settings record.
	RiskSettings() RiskSettings
}

// base carries the state every strategy shares: a name and risk settings.
type base struct {
	name string
	risk RiskSettings
}

func (b *base) Name() string { return b.name }

func (b *base) SetRiskSettings(settings RiskSettings) { b.risk = settings }

func (b *base) RiskSettings() RiskSettings { return b.risk }
