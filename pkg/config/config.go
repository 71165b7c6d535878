// Package config loads and validates the engine configuration from a YAML
// file with environment variable overrides for deploy-time secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tdnghia1906/crypto-strategy-engine/internal/indicators"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/regime"
	"github.com/tdnghia1906/crypto-strategy-engine/internal/strategy"
)

// DataConfig configures the historical price provider.
type DataConfig struct {
	// Provider selects the source: "coingecko" or "csv".
	Provider string `yaml:"provider" json:"provider"`
	// BaseURL overrides the CoinGecko endpoint; empty means production.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// CSVDir is the directory holding per-symbol CSV files when
	// Provider is "csv".
	CSVDir string `yaml:"csv_dir" json:"csv_dir"`
	// CacheTTL bounds how long fetched history is served from cache.
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	// LookbackDays is the default analysis window.
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"`
}

// ExchangeConfig configures the live order executor. Credentials are never
// read from the YAML file; they come from the environment only.
type ExchangeConfig struct {
	// Enabled turns on live execution. Simulated execution is always
	// available regardless.
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Testnet  bool   `yaml:"testnet" json:"testnet"`
	Category string `yaml:"category" json:"category"`

	APIKey    string `yaml:"-" json:"-"`
	APISecret string `yaml:"-" json:"-"`
}

// BacktestConfig holds backtest run defaults.
type BacktestConfig struct {
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	Lookback       int     `yaml:"lookback" json:"lookback"`
}

// Config is the root engine configuration.
type Config struct {
	Indicators indicators.Config     `yaml:"indicators" json:"indicators"`
	Regime     regime.Thresholds     `yaml:"regime" json:"regime"`
	Risk       strategy.RiskSettings `yaml:"risk" json:"risk"`
	Data       DataConfig            `yaml:"data" json:"data"`
	Exchange   ExchangeConfig        `yaml:"exchange" json:"exchange"`
	Backtest   BacktestConfig        `yaml:"backtest" json:"backtest"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Indicators: indicators.DefaultConfig(),
		Regime:     regime.DefaultThresholds(),
		Risk:       strategy.DefaultRiskSettings(),
		Data: DataConfig{
			Provider:     "coingecko",
			CacheTTL:     5 * time.Minute,
			LookbackDays: 30,
		},
		Exchange: ExchangeConfig{
			Testnet:  true,
			Category: "spot",
		},
		Backtest: BacktestConfig{
			InitialCapital: 10000,
		},
	}
}

// Load reads the configuration file, applies environment overrides, and
// validates the result. An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv folds environment variables over the file values. Credentials
// are environment-only so they never land in a committed YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("BYBIT_API_KEY"); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv("BYBIT_API_SECRET"); v != "" {
		c.Exchange.APISecret = v
	}
	if v := os.Getenv("ENGINE_LIVE_TRADING"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Exchange.Enabled = enabled
		}
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		c.Data.BaseURL = v
	}
}

// Validate checks every section for values that would silently corrupt an
// analysis or backtest run.
func (c *Config) Validate() error {
	if err := validateIndicators(c.Indicators); err != nil {
		return err
	}
	if err := validateRegime(c.Regime); err != nil {
		return err
	}
	if err := validateRisk(c.Risk); err != nil {
		return err
	}
	if err := validateData(c.Data); err != nil {
		return err
	}
	if c.Exchange.Enabled {
		if c.Exchange.APIKey == "" || c.Exchange.APISecret == "" {
			return fmt.Errorf("live trading enabled but BYBIT_API_KEY/BYBIT_API_SECRET not set")
		}
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest initial capital must be positive, got: %.2f", c.Backtest.InitialCapital)
	}
	if c.Backtest.Lookback < 0 {
		return fmt.Errorf("backtest lookback must be non-negative, got: %d", c.Backtest.Lookback)
	}
	return nil
}

func validateIndicators(cfg indicators.Config) error {
	for name, p := range map[string]int{
		"ema short":   cfg.EMAShort,
		"ema medium":  cfg.EMAMedium,
		"ema long":    cfg.EMALong,
		"rsi":         cfg.RSIPeriod,
		"macd fast":   cfg.MACDFast,
		"macd slow":   cfg.MACDSlow,
		"macd signal": cfg.MACDSign,
		"bollinger":   cfg.BBPeriod,
	} {
		if p <= 0 {
			return fmt.Errorf("%s period must be positive, got: %d", name, p)
		}
	}
	if cfg.EMAShort >= cfg.EMAMedium || cfg.EMAMedium >= cfg.EMALong {
		return fmt.Errorf("ema periods must be strictly increasing, got: %d/%d/%d",
			cfg.EMAShort, cfg.EMAMedium, cfg.EMALong)
	}
	if cfg.MACDFast >= cfg.MACDSlow {
		return fmt.Errorf("macd fast period must be below slow period, got: %d/%d",
			cfg.MACDFast, cfg.MACDSlow)
	}
	if cfg.BBStdDev <= 0 {
		return fmt.Errorf("bollinger std dev multiplier must be positive, got: %.2f", cfg.BBStdDev)
	}
	return nil
}

func validateRegime(t regime.Thresholds) error {
	if t.VolatilityLow <= 0 || t.VolatilityHigh <= 0 {
		return fmt.Errorf("regime volatility thresholds must be positive, got: %.4f/%.4f",
			t.VolatilityLow, t.VolatilityHigh)
	}
	if t.VolatilityLow >= t.VolatilityHigh {
		return fmt.Errorf("low volatility threshold must be below high threshold, got: %.4f/%.4f",
			t.VolatilityLow, t.VolatilityHigh)
	}
	if t.TrendWeak < 0 || t.TrendStrong <= t.TrendWeak {
		return fmt.Errorf("regime trend thresholds must satisfy 0 <= weak < strong, got: %.1f/%.1f",
			t.TrendWeak, t.TrendStrong)
	}
	return nil
}

func validateRisk(r strategy.RiskSettings) error {
	if r.MaxPositionSize <= 0 || r.MaxPositionSize > 100 {
		return fmt.Errorf("max position size must be within (0, 100], got: %.2f", r.MaxPositionSize)
	}
	if r.StopLoss <= 0 || r.StopLoss >= 100 {
		return fmt.Errorf("stop loss percent must be within (0, 100), got: %.2f", r.StopLoss)
	}
	if r.TakeProfit <= 0 {
		return fmt.Errorf("take profit percent must be positive, got: %.2f", r.TakeProfit)
	}
	if r.MaxConcurrentTrades <= 0 {
		return fmt.Errorf("max concurrent trades must be positive, got: %d", r.MaxConcurrentTrades)
	}
	if r.EmergencyStop < 0 {
		return fmt.Errorf("emergency stop threshold must be non-negative, got: %.2f", r.EmergencyStop)
	}
	return nil
}

func validateData(d DataConfig) error {
	switch d.Provider {
	case "coingecko":
	case "csv":
		if d.CSVDir == "" {
			return fmt.Errorf("csv provider requires csv_dir")
		}
	default:
		return fmt.Errorf("unknown data provider: %q", d.Provider)
	}
	if d.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must be non-negative, got: %s", d.CacheTTL)
	}
	if d.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be positive, got: %d", d.LookbackDays)
	}
	return nil
}
