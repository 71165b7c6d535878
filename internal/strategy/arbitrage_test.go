package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// fixedVenue quotes the reference price scaled by a constant factor.
type fixedVenue struct {
	factor float64
}

func (v fixedVenue) Quote(_ string, price float64) float64 {
	return price * v.factor
}

// TestArbitrage_Evaluate_BuySide tests buying locally when the other venue
// trades richer.
func TestArbitrage_Evaluate_BuySide(t *testing.T) {
	s := NewArbitrage("Arb", ArbitrageParams{MinSpread: 0.5}, fixedVenue{factor: 1.02})

	signal := s.Evaluate(100, plainSnapshot("bitcoin", 100))

	require.NotNil(t, signal)
	assert.Equal(t, types.ActionBuy, signal.Action)
	assert.Equal(t, 100.0, signal.Price)
}

// TestArbitrage_Evaluate_SellSide tests selling locally when the other
// venue trades cheaper.
func TestArbitrage_Evaluate_SellSide(t *testing.T) {
	s := NewArbitrage("Arb", ArbitrageParams{MinSpread: 0.5}, fixedVenue{factor: 0.98})

	signal := s.Evaluate(100, plainSnapshot("bitcoin", 100))

	require.NotNil(t, signal)
	assert.Equal(t, types.ActionSell, signal.Action)
}

// TestArbitrage_Evaluate_SpreadTooSmall tests the minimum-spread gate.
func TestArbitrage_Evaluate_SpreadTooSmall(t *testing.T) {
	s := NewArbitrage("Arb", ArbitrageParams{MinSpread: 0.5}, fixedVenue{factor: 1.001})

	assert.Nil(t, s.Evaluate(100, plainSnapshot("bitcoin", 100)))
}

// TestArbitrage_Evaluate_NilGuards tests degenerate inputs.
func TestArbitrage_Evaluate_NilGuards(t *testing.T) {
	s := NewArbitrage("Arb", DefaultArbitrageParams(), fixedVenue{factor: 1.02})

	assert.Nil(t, s.Evaluate(100, nil))
	assert.Nil(t, s.Evaluate(0, plainSnapshot("bitcoin", 0)))

	noVenue := NewArbitrage("Arb", DefaultArbitrageParams(), nil)
	assert.Nil(t, noVenue.Evaluate(100, plainSnapshot("bitcoin", 100)))
}

// TestSimulatedVenue_Seeded tests that the same seed replays the same quote
// sequence and stays inside the 1% envelope.
func TestSimulatedVenue_Seeded(t *testing.T) {
	a := NewSimulatedVenue(42)
	b := NewSimulatedVenue(42)

	for i := 0; i < 100; i++ {
		qa := a.Quote("bitcoin", 100)
		qb := b.Quote("bitcoin", 100)

		assert.Equal(t, qa, qb)
		assert.GreaterOrEqual(t, qa, 99.0)
		assert.LessOrEqual(t, qa, 101.0)
	}
}
