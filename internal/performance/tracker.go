// Package performance tracks cumulative live trading results per active
// strategy instance.
package performance

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// Metrics is the cumulative performance record for one (strategy, symbol)
// key.
type Metrics struct {
	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	ProfitLoss float64 `json:"profit_loss"`
	Return     float64 `json:"return"`
}

// openEntry tracks the entry side of a position so the exit can be settled
// against it. Signals never carry realized profit; the tracker derives it by
// matching each sell to the entry it closes.
type openEntry struct {
	price    float64
	quantity float64
}

// Tracker maintains per-key cumulative counters, updated on every executed
// fill. Safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	metrics    map[types.StrategyKey]*Metrics
	entries    map[types.StrategyKey]*openEntry
	investment map[types.StrategyKey]float64
	log        zerolog.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(log zerolog.Logger) *Tracker {
	return &Tracker{
		metrics:    make(map[types.StrategyKey]*Metrics),
		entries:    make(map[types.StrategyKey]*openEntry),
		investment: make(map[types.StrategyKey]float64),
		log:        log.With().Str("component", "performance").Logger(),
	}
}

// Register initializes the counters for a newly activated key. Existing
// counters are preserved so reactivation keeps history.
func (t *Tracker) Register(key types.StrategyKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.metrics[key]; !ok {
		t.metrics[key] = &Metrics{}
	}
}

// RecordFill folds one executed fill into the key's counters. A buy opens
// the tracked entry and adds to cumulative investment; a sell realizes
// profit or loss against the tracked entry. A sell with no matching entry
// counts as a trade but does not move the win/loss totals.
func (t *Tracker) RecordFill(key types.StrategyKey, action types.Action, price, quantity float64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.metrics[key]
	if !ok {
		m = &Metrics{}
		t.metrics[key] = m
	}
	m.Trades++

	switch action {
	case types.ActionBuy:
		t.entries[key] = &openEntry{price: price, quantity: quantity}
		t.investment[key] += price * quantity

	case types.ActionSell:
		entry, ok := t.entries[key]
		if !ok {
			t.log.Warn().Stringer("key", key).Time("at", at).
				Msg("sell fill without tracked entry, skipping pnl attribution")
			return
		}
		delete(t.entries, key)

		qty := quantity
		if qty <= 0 || qty > entry.quantity {
			qty = entry.quantity
		}
		profitLoss := qty * (price - entry.price)

		if profitLoss > 0 {
			m.Wins++
		} else {
			m.Losses++
		}
		m.ProfitLoss += profitLoss

		if inv := t.investment[key]; inv > 0 {
			m.Return = m.ProfitLoss / inv * 100
		}
	}
}

// Metrics returns a copy of the counters for a key.
func (t *Tracker) Metrics(key types.StrategyKey) (Metrics, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.metrics[key]
	if !ok {
		return Metrics{}, false
	}
	return *m, true
}

// All returns a copy of every key's counters.
func (t *Tracker) All() map[types.StrategyKey]Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[types.StrategyKey]Metrics, len(t.metrics))
	for k, m := range t.metrics {
		out[k] = *m
	}
	return out
}
