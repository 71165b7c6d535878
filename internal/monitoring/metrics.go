// Package monitoring exposes Prometheus metrics for the strategy engine.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_engine_signals_total",
			Help: "Total number of trade signals generated",
		},
		[]string{"strategy", "action"},
	)

	backtestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "strategy_engine_backtests_total",
			Help: "Total number of backtest runs",
		},
	)

	backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "strategy_engine_backtest_duration_seconds",
			Help:    "Wall time of backtest runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	simulatedTradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_engine_simulated_trades_total",
			Help: "Total number of trades recorded by the simulator",
		},
		[]string{"symbol", "action"},
	)

	activeStrategies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "strategy_engine_active_strategies",
			Help: "Number of currently active strategy instances",
		},
	)

	analysisCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_engine_analysis_cache_hits_total",
			Help: "Analysis results served from cache",
		},
		[]string{"kind"},
	)

	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strategy_engine_executions_total",
			Help: "Signal executions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		signalsTotal,
		backtestsTotal,
		backtestDuration,
		simulatedTradesTotal,
		activeStrategies,
		analysisCacheHits,
		executionsTotal,
	)
}

// SignalGenerated records a strategy signal.
func SignalGenerated(strategy, action string) {
	signalsTotal.WithLabelValues(strategy, action).Inc()
}

// BacktestCompleted records one finished backtest run.
func BacktestCompleted(elapsed time.Duration, tradeCount int, symbol string) {
	backtestsTotal.Inc()
	backtestDuration.Observe(elapsed.Seconds())
	simulatedTradesTotal.WithLabelValues(symbol, "all").Add(float64(tradeCount))
}

// SetActiveStrategies updates the active-instance gauge.
func SetActiveStrategies(n int) {
	activeStrategies.Set(float64(n))
}

// AnalysisCacheHit records an analysis result served from cache.
func AnalysisCacheHit(kind string) {
	analysisCacheHits.WithLabelValues(kind).Inc()
}

// ExecutionRecorded records a signal execution attempt.
func ExecutionRecorded(mode string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	executionsTotal.WithLabelValues(mode, outcome).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
