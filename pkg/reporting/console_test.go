package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/backtest"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

func sampleResult() *backtest.Result {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &backtest.Result{
		StrategyType:   types.StrategyTrend,
		Symbol:         "bitcoin",
		Period:         backtest.Period{Start: start, End: start.AddDate(0, 3, 0)},
		InitialCapital: 10000,
		FinalCapital:   11500,
		TotalReturn:    15,
		Trades: []types.TradeRecord{
			{ID: "trade_000001", Action: types.ActionBuy, Price: 100, Quantity: 10, Value: 1000, Time: start, Trigger: types.TriggerSignal},
			{ID: "trade_000002", Action: types.ActionSell, Price: 115, Quantity: 10, Value: 1150, ProfitLoss: 150, Realized: true, Time: start.Add(time.Hour), Trigger: types.TriggerTakeProfit},
		},
		EquityCurve: []types.EquityPoint{
			{Time: start, Value: 10000},
			{Time: start.Add(time.Hour), Value: 11500},
		},
		Metrics: backtest.Metrics{Trades: 1, Wins: 1, WinRate: 100, ProfitFactor: 100},
	}
}

// TestConsoleReporter_Report tests that summary and trades render.
func TestConsoleReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporterTo(&buf)

	reporter.Report(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "BACKTEST RESULTS")
	assert.Contains(t, out, "bitcoin")
	assert.Contains(t, out, "trade_000001")
	assert.Contains(t, out, "take_profit")
}

// TestConsoleReporter_MaxTrades tests trade table truncation.
func TestConsoleReporter_MaxTrades(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporterTo(&buf)
	reporter.MaxTrades = 1

	reporter.Report(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "trade_000001")
	assert.NotContains(t, out, "trade_000002")
	assert.Contains(t, out, "1 more trades omitted")
}

// TestConsoleReporter_NoTrades tests the empty-run message.
func TestConsoleReporter_NoTrades(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporterTo(&buf)

	result := sampleResult()
	result.Trades = nil
	reporter.Report(result)

	assert.Contains(t, buf.String(), "No trades executed.")
}
