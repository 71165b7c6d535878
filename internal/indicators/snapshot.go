package indicators

import "time"

// Default indicator parameters, matching the values the analysis layer was
// tuned with.
const (
	DefaultEMAShort  = 9
	DefaultEMAMedium = 21
	DefaultEMALong   = 50

	DefaultRSIPeriod     = 14
	DefaultRSIOversold   = 30.0
	DefaultRSIOverbought = 70.0

	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9

	DefaultBBPeriod     = 20
	DefaultBBDeviations = 2.0
)

// Config holds the periods used when computing a full indicator snapshot.
type Config struct {
	EMAShort  int     `json:"ema_short" yaml:"ema_short"`
	EMAMedium int     `json:"ema_medium" yaml:"ema_medium"`
	EMALong   int     `json:"ema_long" yaml:"ema_long"`
	RSIPeriod int     `json:"rsi_period" yaml:"rsi_period"`
	MACDFast  int     `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow  int     `json:"macd_slow" yaml:"macd_slow"`
	MACDSign  int     `json:"macd_signal" yaml:"macd_signal"`
	BBPeriod  int     `json:"bb_period" yaml:"bb_period"`
	BBStdDev  float64 `json:"bb_std_dev" yaml:"bb_std_dev"`
}

// DefaultConfig returns the standard indicator configuration.
func DefaultConfig() Config {
	return Config{
		EMAShort:  DefaultEMAShort,
		EMAMedium: DefaultEMAMedium,
		EMALong:   DefaultEMALong,
		RSIPeriod: DefaultRSIPeriod,
		MACDFast:  DefaultMACDFast,
		MACDSlow:  DefaultMACDSlow,
		MACDSign:  DefaultMACDSignal,
		BBPeriod:  DefaultBBPeriod,
		BBStdDev:  DefaultBBDeviations,
	}
}

// EMASet groups the three EMA horizons used across the engine.
type EMASet struct {
	Short  float64 `json:"short"`
	Medium float64 `json:"medium"`
	Long   float64 `json:"long"`
}

// Snapshot is the full set of indicator values computed at a single point
// in time from a trailing price window.
type Snapshot struct {
	Symbol    string         `json:"symbol"`
	Price     float64        `json:"price"`
	EMA       EMASet         `json:"ema"`
	RSI       float64        `json:"rsi"`
	MACD      MACDValue      `json:"macd"`
	Bollinger BollingerBands `json:"bollinger"`
	Timestamp time.Time      `json:"timestamp"`
}

// Engine bundles the configured indicators behind one snapshot call.
// Engines are stateless and safe for concurrent use.
type Engine struct {
	cfg Config

	emaShort  *EMA
	emaMedium *EMA
	emaLong   *EMA
	rsi       *RSI
	macd      *MACD
	bollinger *Bollinger
}

// NewEngine creates an indicator engine from the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:       cfg,
		emaShort:  NewEMA(cfg.EMAShort),
		emaMedium: NewEMA(cfg.EMAMedium),
		emaLong:   NewEMA(cfg.EMALong),
		rsi:       NewRSI(cfg.RSIPeriod),
		macd:      NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSign),
		bollinger: NewBollinger(cfg.BBPeriod, cfg.BBStdDev),
	}
}

// Snapshot computes every configured indicator over the price window.
// Identical input always produces an identical snapshot; degenerate windows
// produce the per-indicator fallback values instead of errors.
func (e *Engine) Snapshot(symbol string, prices []float64, at time.Time) *Snapshot {
	if len(prices) == 0 {
		return nil
	}

	return &Snapshot{
		Symbol: symbol,
		Price:  prices[len(prices)-1],
		EMA: EMASet{
			Short:  e.emaShort.Calculate(prices),
			Medium: e.emaMedium.Calculate(prices),
			Long:   e.emaLong.Calculate(prices),
		},
		RSI:       e.rsi.Calculate(prices),
		MACD:      e.macd.Calculate(prices),
		Bollinger: e.bollinger.Calculate(prices),
		Timestamp: at,
	}
}

// Config returns the engine's indicator configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
