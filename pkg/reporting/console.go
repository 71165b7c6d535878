// Package reporting renders backtest results for humans: console tables
// for quick inspection and Excel workbooks for offline analysis.
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/backtest"
)

// ConsoleReporter renders a backtest result as terminal tables.
type ConsoleReporter struct {
	out io.Writer
	// MaxTrades caps the trade table; zero means print everything.
	MaxTrades int
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a reporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// Report prints the summary and trade tables for one result.
func (r *ConsoleReporter) Report(result *backtest.Result) {
	r.printSummary(result)
	r.printTrades(result)
}

func (r *ConsoleReporter) printSummary(result *backtest.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("BACKTEST RESULTS")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Strategy", string(result.StrategyType)},
		{"Symbol", result.Symbol},
		{"Period", fmt.Sprintf("%s → %s",
			result.Period.Start.Format("2006-01-02"),
			result.Period.End.Format("2006-01-02"))},
		{"Initial Capital", fmt.Sprintf("$%.2f", result.InitialCapital)},
		{"Final Capital", fmt.Sprintf("$%.2f", result.FinalCapital)},
		{"Total Return", fmt.Sprintf("%.2f%%", result.TotalReturn)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Trades", result.Metrics.Trades},
		{"Wins / Losses", fmt.Sprintf("%d / %d", result.Metrics.Wins, result.Metrics.Losses)},
		{"Win Rate", fmt.Sprintf("%.1f%%", result.Metrics.WinRate)},
		{"Profit Factor", fmt.Sprintf("%.2f", result.Metrics.ProfitFactor)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", result.Metrics.MaxDrawdown)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

func (r *ConsoleReporter) printTrades(result *backtest.Result) {
	if len(result.Trades) == 0 {
		fmt.Fprintln(r.out, "No trades executed.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Time", "Action", "Price", "Quantity", "P/L", "Trigger"})

	trades := result.Trades
	truncated := 0
	if r.MaxTrades > 0 && len(trades) > r.MaxTrades {
		truncated = len(trades) - r.MaxTrades
		trades = trades[:r.MaxTrades]
	}

	for _, trade := range trades {
		pnl := ""
		if trade.Realized {
			pnl = fmt.Sprintf("%+.2f", trade.ProfitLoss)
		}
		t.AppendRow(table.Row{
			trade.ID,
			trade.Time.Format("2006-01-02 15:04"),
			trade.Action.String(),
			fmt.Sprintf("%.4f", trade.Price),
			fmt.Sprintf("%.6f", trade.Quantity),
			pnl,
			string(trade.Trigger),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	t.Render()
	if truncated > 0 {
		fmt.Fprintf(r.out, "... %d more trades omitted\n", truncated)
	}
	fmt.Fprintln(r.out)
}
