package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	engerrors "github.com/tdnghia1906/crypto-strategy-engine/internal/errors"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// CSVProvider serves price history from a local CSV file, for offline
// backtests. Expected columns: time,price with time as RFC3339 or unix
// seconds. A header row is skipped automatically.
type CSVProvider struct {
	path string
}

// NewCSVProvider creates a provider reading from path.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// HistoricalData loads the whole file; symbol and days select nothing here
// since the file already scopes the data.
func (p *CSVProvider) HistoricalData(_ context.Context, _ string, _ int) (*types.HistoricalData, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, engerrors.Wrap(err, engerrors.CategoryData, "csv", "open")
	}
	defer f.Close()

	series, err := readPriceCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}

	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", p.path, err)
	}

	return &types.HistoricalData{Prices: series}, nil
}

func readPriceCSV(r io.Reader) (types.PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	series := make(types.PriceSeries, 0, 1024)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected time,price columns", line)
		}

		ts, err := parseTime(strings.TrimSpace(record[0]))
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad price: %w", line, err)
		}

		series = append(series, types.PricePoint{Time: ts, Value: price})
	}
	return series, nil
}

func parseTime(s string) (time.Time, error) {
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
