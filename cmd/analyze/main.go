package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/analysis"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/optimizer"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/regime"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/config"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/data"
)

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file (YAML)")
		envFile    = flag.String("env", ".env", "Environment file path")
		symbolsArg = flag.String("symbols", "bitcoin,ethereum", "Comma-separated symbols to analyze")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load env file %s: %v", *envFile, err)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	var provider data.Provider
	switch cfg.Data.Provider {
	case "csv":
		provider = data.NewCSVProvider(cfg.Data.CSVDir)
	default:
		opts := []data.CoinGeckoOption{data.WithHistoryTTL(cfg.Data.CacheTTL)}
		if cfg.Data.BaseURL != "" {
			opts = append(opts, data.WithBaseURL(cfg.Data.BaseURL))
		}
		provider = data.NewCoinGeckoClient(logger, opts...)
	}

	analyzer := analysis.NewAnalyzer(
		provider,
		regime.NewDetector(cfg.Regime),
		indicators.NewEngine(cfg.Indicators),
		logger,
		analysis.WithLookbackDays(cfg.Data.LookbackDays),
		analysis.WithCacheTTL(cfg.Data.CacheTTL),
	)

	ctx := context.Background()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("MARKET ANALYSIS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Symbol", "Price", "Regime", "Volatility", "Trend", "Confidence", "Signal", "RSI", "Recommended"})

	for _, symbol := range strings.Split(*symbolsArg, ",") {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}

		classification := analyzer.AnalyzeMarket(ctx, symbol)
		technicals := analyzer.AnalyzeTechnicals(ctx, symbol)

		template := strategy.TemplateFor(classification.Regime)
		template.Params = optimizer.Optimize(
			template.Type,
			template.Params,
			classification.Volatility,
			classification.TrendStrength,
		)

		t.AppendRow(table.Row{
			symbol,
			fmt.Sprintf("%.2f", technicals.Price),
			string(classification.Regime),
			fmt.Sprintf("%.4f", classification.Volatility),
			fmt.Sprintf("%.1f", classification.TrendStrength),
			fmt.Sprintf("%.0f%%", classification.Confidence),
			technicals.Signal.String(),
			fmt.Sprintf("%.1f", technicals.RSI),
			template.Name,
		})
	}

	t.Render()
}
