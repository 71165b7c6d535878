package strategy

import (
	"fmt"
	"math"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// gridProximity is how close (as a fraction of the level price) the market
// must come to a grid line before it fires.
const gridProximity = 0.001

// GridLevel is one line of a symbol's trading grid.
type GridLevel struct {
	Level  int
	Price  float64
	Action types.Action
}

// MeanReversion trades a price grid anchored on the Bollinger bands: buy
// lines below the middle band, sell lines above, plus RSI-confirmed
// oversold/overbought signals outside the bands.
type MeanReversion struct {
	base
	params GridParams

	// grids memoizes the per-symbol grid, built from the bands seen on the
	// first evaluation for that symbol.
	grids map[string][]GridLevel
}

// NewMeanReversion creates a mean-reversion grid strategy.
func NewMeanReversion(name string, params GridParams) *MeanReversion {
	return &MeanReversion{
		base:   base{name: name, risk: DefaultRiskSettings()},
		params: params,
		grids:  make(map[string][]GridLevel),
	}
}

// Evaluate fires when price comes within 0.1% of a grid line, or on an
// oversold (RSI<30, price below lower band) / overbought (RSI>70, price
// above upper band) extreme.
func (s *MeanReversion) Evaluate(price float64, snapshot *indicators.Snapshot) *types.Signal {
	if snapshot == nil {
		return nil
	}

	bands := snapshot.Bollinger
	levels, ok := s.grids[snapshot.Symbol]
	if !ok {
		levels = buildGrid(bands.Middle, bands.Upper, bands.Lower, s.params.Levels)
		s.grids[snapshot.Symbol] = levels
	}

	for _, level := range levels {
		if level.Price <= 0 {
			continue
		}
		if math.Abs(price-level.Price)/level.Price < gridProximity {
			return &types.Signal{
				Action:    level.Action,
				Symbol:    snapshot.Symbol,
				Price:     price,
				Quantity:  1,
				Reason:    fmt.Sprintf("Grid level %d (%s)", level.Level, level.Action),
				Timestamp: snapshot.Timestamp,
			}
		}
	}

	if snapshot.RSI < indicators.DefaultRSIOversold && price < bands.Lower {
		return &types.Signal{
			Action:    types.ActionBuy,
			Symbol:    snapshot.Symbol,
			Price:     price,
			Quantity:  1,
			Reason:    "Oversold condition (RSI + Bollinger)",
			Timestamp: snapshot.Timestamp,
		}
	}

	if snapshot.RSI > indicators.DefaultRSIOverbought && price > bands.Upper {
		return &types.Signal{
			Action:    types.ActionSell,
			Symbol:    snapshot.Symbol,
			Price:     price,
			Quantity:  1,
			Reason:    "Overbought condition (RSI + Bollinger)",
			Timestamp: snapshot.Timestamp,
		}
	}

	return nil
}

// GridLevels exposes the memoized grid for a symbol, or nil before the first
// evaluation.
func (s *MeanReversion) GridLevels(symbol string) []GridLevel {
	return s.grids[symbol]
}

func (s *MeanReversion) Type() types.StrategyType { return types.StrategyMeanRevert }

func (s *MeanReversion) Params() Params { return s.params }

// buildGrid spreads count equally spaced grid lines between the Bollinger
// bands around the middle band: half buy lines below, half sell lines above.
func buildGrid(middle, upper, lower float64, count int) []GridLevel {
	if count <= 0 {
		return nil
	}

	width := (upper - lower) / float64(count)
	half := count / 2
	levels := make([]GridLevel, 0, half*2)

	for i := 1; i <= half; i++ {
		levels = append(levels, GridLevel{
			Level:  -i,
			Price:  middle - float64(i)*width,
			Action: types.ActionBuy,
		})
	}
	for i := 1; i <= half; i++ {
		levels = append(levels, GridLevel{
			Level:  i,
			Price:  middle + float64(i)*width,
			Action: types.ActionSell,
		})
	}
	return levels
}
