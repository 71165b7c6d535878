package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/analysis"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/engine"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/exchange"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/regime"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/config"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/data"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/reporting"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file (YAML)")
		envFile     = flag.String("env", ".env", "Environment file path")
		symbol      = flag.String("symbol", "bitcoin", "Symbol to backtest")
		strategyArg = flag.String("strategy", "trend", "Strategy type (trend, mean_reversion, market_making, arbitrage)")
		paramsArg   = flag.String("params", "", "Strategy parameter overrides, e.g. short_ema=9,long_ema=21")
		startArg    = flag.String("start", "", "Period start (YYYY-MM-DD), default 90 days ago")
		endArg      = flag.String("end", "", "Period end (YYYY-MM-DD), default today")
		capital     = flag.Float64("capital", 0, "Initial capital (overrides config)")
		output      = flag.String("output", "", "Optional .xlsx output path")
		maxTrades   = flag.Int("max-trades", 30, "Max trades printed to console, 0 for all")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load env file %s: %v", *envFile, err)
	}

	logger := newLogger(*verbose)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	typ, err := types.ParseStrategyType(*strategyArg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid strategy type")
	}
	params, err := parseParams(typ, *paramsArg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid strategy params")
	}

	start, end, err := parsePeriod(*startArg, *endArg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid period")
	}

	initialCapital := cfg.Backtest.InitialCapital
	if *capital > 0 {
		initialCapital = *capital
	}

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build engine")
	}

	result, err := eng.Backtest(context.Background(), engine.BacktestRequest{
		StrategyType:   typ,
		Params:         params,
		Symbol:         *symbol,
		Start:          start,
		End:            end,
		InitialCapital: initialCapital,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("backtest failed")
	}

	console := reporting.NewConsoleReporter()
	console.MaxTrades = *maxTrades
	console.Report(result)

	if *output != "" {
		if err := reporting.NewExcelReporter().Write(result, *output); err != nil {
			logger.Fatal().Err(err).Str("path", *output).Msg("failed to write workbook")
		}
		logger.Info().Str("path", *output).Msg("workbook written")
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

func buildEngine(cfg *config.Config, logger zerolog.Logger) (*engine.Engine, error) {
	provider, err := buildProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	detector := regime.NewDetector(cfg.Regime)
	ind := indicators.NewEngine(cfg.Indicators)
	analyzer := analysis.NewAnalyzer(provider, detector, ind, logger,
		analysis.WithLookbackDays(cfg.Data.LookbackDays),
		analysis.WithCacheTTL(cfg.Data.CacheTTL),
	)

	engineCfg := engine.Config{
		Provider:  provider,
		Analyzer:  analyzer,
		Simulated: exchange.NewSimulatedExecutor(logger),
		Risk:      cfg.Risk,
	}
	if cfg.Exchange.Enabled {
		live, err := exchange.NewBybitExecutor(exchange.BybitConfig{
			APIKey:    cfg.Exchange.APIKey,
			APISecret: cfg.Exchange.APISecret,
			Testnet:   cfg.Exchange.Testnet,
			Category:  cfg.Exchange.Category,
		}, logger)
		if err != nil {
			return nil, err
		}
		engineCfg.Live = live
	}

	return engine.New(engineCfg, logger), nil
}

func buildProvider(cfg *config.Config, logger zerolog.Logger) (data.Provider, error) {
	switch cfg.Data.Provider {
	case "csv":
		return data.NewCSVProvider(cfg.Data.CSVDir), nil
	case "coingecko":
		opts := []data.CoinGeckoOption{data.WithHistoryTTL(cfg.Data.CacheTTL)}
		if cfg.Data.BaseURL != "" {
			opts = append(opts, data.WithBaseURL(cfg.Data.BaseURL))
		}
		return data.NewCoinGeckoClient(logger, opts...), nil
	default:
		return nil, fmt.Errorf("unknown data provider: %q", cfg.Data.Provider)
	}
}

func parsePeriod(startArg, endArg string) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -90)
	var err error
	if startArg != "" {
		if start, err = time.Parse(dateLayout, startArg); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startArg, err)
		}
	}
	if endArg != "" {
		if end, err = time.Parse(dateLayout, endArg); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endArg, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", endArg, startArg)
	}
	return start, end, nil
}

// parseParams builds typed strategy params from key=value overrides; an
// empty string keeps the strategy defaults.
func parseParams(typ types.StrategyType, raw string) (strategy.Params, error) {
	if raw == "" {
		return nil, nil
	}

	kv := map[string]float64{}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed parameter %q", pair)
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", parts[0], err)
		}
		kv[parts[0]] = value
	}

	get := func(key string, fallback float64) float64 {
		if v, ok := kv[key]; ok {
			return v
		}
		return fallback
	}

	switch typ {
	case types.StrategyTrend:
		defaults := strategy.DefaultTrendParams()
		return strategy.TrendParams{
			ShortEMA: int(get("short_ema", float64(defaults.ShortEMA))),
			LongEMA:  int(get("long_ema", float64(defaults.LongEMA))),
		}, nil
	case types.StrategyMeanRevert:
		defaults := strategy.DefaultGridParams()
		return strategy.GridParams{
			Width:  get("grid_width", defaults.Width),
			Levels: int(get("grid_levels", float64(defaults.Levels))),
		}, nil
	case types.StrategyMarketMaking:
		defaults := strategy.DefaultMarketMakingParams()
		return strategy.MarketMakingParams{
			Spread:    get("spread", defaults.Spread),
			OrderSize: get("order_size", defaults.OrderSize),
		}, nil
	case types.StrategyArbitrage:
		defaults := strategy.DefaultArbitrageParams()
		return strategy.ArbitrageParams{
			MinSpread: get("min_spread", defaults.MinSpread),
		}, nil
	default:
		return nil, fmt.Errorf("unknown strategy type: %q", typ)
	}
}
