package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// ErrUnknownStrategy is returned for activation or backtest requests naming
// a strategy type that is not in the catalog.
var ErrUnknownStrategy = errors.New("unknown strategy type")

// Option customizes construction of a strategy instance.
type Option func(*factoryOptions)

type factoryOptions struct {
	venue VenueQuoter
	risk  *RiskSettings
}

// WithVenueQuoter injects the alternate-venue quote source used by the
// arbitrage strategy. Backtests pass a seeded SimulatedVenue here so runs
// stay reproducible.
func WithVenueQuoter(venue VenueQuoter) Option {
	return func(o *factoryOptions) { o.venue = venue }
}

// WithRiskSettings overrides the default risk record at construction.
func WithRiskSettings(settings RiskSettings) Option {
	return func(o *factoryOptions) { o.risk = &settings }
}

// New constructs a strategy instance of the given type. A nil params falls
// back to the type's defaults; a params value of the wrong concrete type is
// rejected. Unknown types fail fast with ErrUnknownStrategy.
func New(name string, typ types.StrategyType, params Params, opts ...Option) (Strategy, error) {
	var o factoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	var s Strategy
	switch typ {
	case types.StrategyTrend:
		p, err := paramsAs(params, DefaultTrendParams())
		if err != nil {
			return nil, err
		}
		s = NewTrendFollowing(name, p)

	case types.StrategyMeanRevert:
		p, err := paramsAs(params, DefaultGridParams())
		if err != nil {
			return nil, err
		}
		s = NewMeanReversion(name, p)

	case types.StrategyMarketMaking:
		p, err := paramsAs(params, DefaultMarketMakingParams())
		if err != nil {
			return nil, err
		}
		s = NewMarketMaking(name, p)

	case types.StrategyArbitrage:
		p, err := paramsAs(params, DefaultArbitrageParams())
		if err != nil {
			return nil, err
		}
		venue := o.venue
		if venue == nil {
			venue = NewSimulatedVenue(time.Now().UnixNano())
		}
		s = NewArbitrage(name, p, venue)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, typ)
	}

	if o.risk != nil {
		s.SetRiskSettings(*o.risk)
	}
	return s, nil
}

// paramsAs returns params as type P, the fallback when params is nil, or an
// error on a type mismatch.
func paramsAs[P Params](params Params, fallback P) (P, error) {
	if params == nil {
		return fallback, nil
	}
	p, ok := params.(P)
	if !ok {
		return fallback, fmt.Errorf("params type %T does not match strategy", params)
	}
	return p, nil
}
