package strategy

import (
	"math"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// MarketMaking quotes a synthetic bid and ask around the current price and
// signals when the market trades into either side of the spread. Real limit
// orders belong to the execution layer; here the quotes only gate signals.
type MarketMaking struct {
	base
	params MarketMakingParams
}

// NewMarketMaking creates a market-making strategy.
func NewMarketMaking(name string, params MarketMakingParams) *MarketMaking {
	return &MarketMaking{
		base:   base{name: name, risk: DefaultRiskSettings()},
		params: params,
	}
}

// Evaluate emits a buy when price is within 0.1% of the synthetic bid and a
// sell when it is within 0.1% of the synthetic ask.
func (s *MarketMaking) Evaluate(price float64, snapshot *indicators.Snapshot) *types.Signal {
	if snapshot == nil || price <= 0 {
		return nil
	}

	spreadAmount := price * (s.params.Spread / 100)
	bid := price - spreadAmount
	ask := price + spreadAmount

	if math.Abs(price-bid)/price < gridProximity {
		return &types.Signal{
			Action:    types.ActionBuy,
			Symbol:    snapshot.Symbol,
			Price:     price,
			Quantity:  1,
			Reason:    "Market making bid",
			Timestamp: snapshot.Timestamp,
		}
	}

	if math.Abs(price-ask)/price < gridProximity {
		return &types.Signal{
			Action:    types.ActionSell,
			Symbol:    snapshot.Symbol,
			Price:     price,
			Quantity:  1,
			Reason:    "Market making ask",
			Timestamp: snapshot.Timestamp,
		}
	}

	return nil
}

func (s *MarketMaking) Type() types.StrategyType { return types.StrategyMarketMaking }

func (s *MarketMaking) Params() Params { return s.params }
