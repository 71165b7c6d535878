package backtest

import "github.com/tdnghia1906/crypto-strategy-engine/pkg/types"

// Metrics aggregates the outcomes of a completed run.
type Metrics struct {
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
	MaxDrawdown  float64 `json:"max_drawdown"`
}

// ComputeMetrics derives performance metrics from a trade log and its
// equity curve. Only exits with a realized profit/loss count toward win and
// loss totals; a zero profit counts as a loss.
func ComputeMetrics(trades []types.TradeRecord, equity []types.EquityPoint) Metrics {
	var m Metrics
	var totalProfit, totalLoss float64

	for _, t := range trades {
		if t.Action != types.ActionSell || !t.Realized {
			continue
		}
		if t.ProfitLoss > 0 {
			m.Wins++
			totalProfit += t.ProfitLoss
		} else {
			m.Losses++
			totalLoss += -t.ProfitLoss
		}
	}

	m.Trades = m.Wins + m.Losses
	if m.Trades > 0 {
		m.WinRate = float64(m.Wins) / float64(m.Trades) * 100
	}
	m.ProfitFactor = profitFactor(totalProfit, totalLoss)
	m.MaxDrawdown = MaxDrawdown(equity)

	return m
}

// profitFactor is gross profit over gross loss, with the conventional
// boundary values: 100 when there are profits and no losses, 0 when there
// are neither.
func profitFactor(totalProfit, totalLoss float64) float64 {
	if totalLoss > 0 {
		return totalProfit / totalLoss
	}
	if totalProfit > 0 {
		return 100
	}
	return 0
}

// MaxDrawdown returns the greatest peak-to-trough percentage decline over
// the equity curve. The peak resets upward on every new high; drawdown is
// only measured while equity sits below the most recent peak.
func MaxDrawdown(equity []types.EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Value
	trough := peak
	maxDrawdown := 0.0

	for _, point := range equity[1:] {
		switch {
		case point.Value > peak:
			peak = point.Value
			trough = peak
		case point.Value < trough:
			trough = point.Value
			if peak > 0 {
				if dd := (peak - trough) / peak * 100; dd > maxDrawdown {
					maxDrawdown = dd
				}
			}
		}
	}
	return maxDrawdown
}
