package strategy

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// VenueQuoter supplies the price of a symbol on an alternate venue. It is an
// injected dependency so tests and backtests can use a seeded simulation
// while a live deployment can plug in a real second exchange feed.
type VenueQuoter interface {
	Quote(symbol string, price float64) float64
}

// SimulatedVenue is a VenueQuoter that perturbs the reference price by up to
// ±1%, drawn from its own seeded source.
type SimulatedVenue struct {
	rng *rand.Rand
}

// NewSimulatedVenue creates a simulated alternate venue with a fixed seed.
func NewSimulatedVenue(seed int64) *SimulatedVenue {
	return &SimulatedVenue{rng: rand.New(rand.NewSource(seed))}
}

// Quote returns the reference price moved by a random offset within ±1%.
func (v *SimulatedVenue) Quote(_ string, price float64) float64 {
	return price * (1 + (v.rng.Float64()*0.02 - 0.01))
}

// Arbitrage compares the local price against an alternate venue's quote and
// signals when the cross-venue spread clears the configured minimum.
type Arbitrage struct {
	base
	params ArbitrageParams
	venue  VenueQuoter
}

// NewArbitrage creates an arbitrage strategy quoting against venue.
func NewArbitrage(name string, params ArbitrageParams, venue VenueQuoter) *Arbitrage {
	return &Arbitrage{
		base:   base{name: name, risk: DefaultRiskSettings()},
		params: params,
		venue:  venue,
	}
}

// Evaluate buys here when the other venue is richer and sells here when the
// other venue is cheaper, once the spread exceeds MinSpread percent.
func (s *Arbitrage) Evaluate(price float64, snapshot *indicators.Snapshot) *types.Signal {
	if snapshot == nil || s.venue == nil || price <= 0 {
		return nil
	}

	other := s.venue.Quote(snapshot.Symbol, price)
	spread := math.Abs(other-price) / price * 100
	if spread < s.params.MinSpread {
		return nil
	}

	action := types.ActionSell
	if other > price {
		action = types.ActionBuy
	}

	return &types.Signal{
		Action:    action,
		Symbol:    snapshot.Symbol,
		Price:     price,
		Quantity:  1,
		Reason:    fmt.Sprintf("Arbitrage opportunity (%.2f%% spread)", spread),
		Timestamp: snapshot.Timestamp,
	}
}

func (s *Arbitrage) Type() types.StrategyType { return types.StrategyArbitrage }

func (s *Arbitrage) Params() Params { return s.params }
