package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/backtest"
)

// ExcelReporter writes a backtest result to an .xlsx workbook with a
// summary sheet, the full trade log, and the equity curve.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

const (
	summarySheet = "Summary"
	tradesSheet  = "Trades"
	equitySheet  = "Equity Curve"
)

// Write saves the result workbook at path, creating parent directories as
// needed.
func (r *ExcelReporter) Write(result *backtest.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(tradesSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(equitySheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	if err := r.writeSummary(fx, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeTrades(fx, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeEquity(fx, result, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeSummary(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Strategy", string(result.StrategyType)},
		{"Symbol", result.Symbol},
		{"Period Start", result.Period.Start.Format("2006-01-02 15:04:05")},
		{"Period End", result.Period.End.Format("2006-01-02 15:04:05")},
		{"Initial Capital", result.InitialCapital},
		{"Final Capital", result.FinalCapital},
		{"Total Return %", result.TotalReturn},
		{"Trades", result.Metrics.Trades},
		{"Winning Trades", result.Metrics.Wins},
		{"Losing Trades", result.Metrics.Losses},
		{"Win Rate %", result.Metrics.WinRate},
		{"Profit Factor", result.Metrics.ProfitFactor},
		{"Max Drawdown %", result.Metrics.MaxDrawdown},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := fx.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return fx.SetColWidth(summarySheet, "A", "B", 22)
}

func (r *ExcelReporter) writeTrades(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"ID", "Time", "Action", "Price", "Quantity", "Value", "Profit/Loss", "Trigger"}
	if err := fx.SetSheetRow(tradesSheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(tradesSheet, "A1", "H1", headerStyle); err != nil {
		return err
	}

	for i, trade := range result.Trades {
		row := []interface{}{
			trade.ID,
			trade.Time.Format("2006-01-02 15:04:05"),
			trade.Action.String(),
			trade.Price,
			trade.Quantity,
			trade.Value,
			nil,
			string(trade.Trigger),
		}
		if trade.Realized {
			row[6] = trade.ProfitLoss
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(tradesSheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetColWidth(tradesSheet, "A", "H", 16)
}

func (r *ExcelReporter) writeEquity(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"Time", "Capital"}
	if err := fx.SetSheetRow(equitySheet, "A1", &header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(equitySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	for i, point := range result.EquityCurve {
		row := []interface{}{
			point.Time.Format("2006-01-02 15:04:05"),
			point.Value,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(equitySheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetColWidth(equitySheet, "A", "B", 22)
}
