package backtest

import (
	"sort"
	"time"

	"github.com/quantopen/quantopen/broker"
	"github.com/quantopen/quantopen/strategy"
)

// Close reasons attached to instructions, recorded by the broker journal.
const (
	reasonHoldTimeout = "HoldTimeout"
	reasonRebalance   = "Rebalance"
	reasonRiskOff     = "RiskOff"
	reasonTarget      = "Target"
)

// Reconciler diffs target weights against open positions and emits the
// tick's instruction batch. It owns the position records (symbol -> entry
// time): exactly one record per open symbol, created on flat-to-open,
// removed when the position returns to flat.
//
// A symbol's position only moves FLAT -> OPEN (target weight > 0) and
// OPEN -> FLAT (timeout, removal from targets, or risk-off); resizes stay
// OPEN through the adjust path.
type Reconciler struct {
	entries    map[string]time.Time
	lastWeight map[string]float64
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		entries:    make(map[string]time.Time),
		lastWeight: make(map[string]float64),
	}
}

// Entries exposes the position records for the hold monitor. The map is
// shared; callers must not modify it.
func (r *Reconciler) Entries() map[string]time.Time { return r.entries }

// Reconcile produces the instruction batch for one tick.
//
// positions holds the broker's current non-zero share counts. targets is
// nil on ticks where scoring never ran (non-rebalance ticks, or a
// rebalance tick whose snapshot was empty); a nil target set never closes
// open positions, whereas an empty non-nil set means "no candidates" and
// closes them all. expired lists symbols past their hold timeout. stop is
// the latched drawdown stop: when set, every open position is flattened
// and targets are ignored.
//
// Resubmitting identical targets against unchanged positions yields no
// instructions.
func (r *Reconciler) Reconcile(now time.Time, positions map[string]float64, targets *strategy.Weights, rebalance bool, expired []string, stop bool) []broker.TargetOrder {
	var orders []broker.TargetOrder

	// Force-closed symbols are flat from this point in the tick on, even
	// though the caller's position map predates the batch.
	flattened := make(map[string]bool)

	// 1) Hold timeouts close first, unconditionally.
	for _, sym := range expired {
		if positions[sym] != 0 {
			orders = append(orders, broker.TargetOrder{Symbol: sym, Weight: 0, Reason: reasonHoldTimeout})
		}
		flattened[sym] = true
		r.drop(sym)
	}

	// 2) Risk-off flattens everything else and suppresses new openings.
	if stop {
		for _, sym := range sortedSymbols(positions) {
			if positions[sym] == 0 || flattened[sym] {
				continue
			}
			orders = append(orders, broker.TargetOrder{Symbol: sym, Weight: 0, Reason: reasonRiskOff})
			r.drop(sym)
		}
		return orders
	}

	// 3) On rebalance ticks, open positions absent from targets close.
	// A nil target set means scoring never produced one this tick (e.g.
	// no symbol had a prior close); holding through such a gap is not a
	// drop decision.
	if rebalance && targets != nil {
		for _, sym := range sortedSymbols(positions) {
			if positions[sym] == 0 || flattened[sym] {
				continue
			}
			if targets.Has(sym) {
				continue
			}
			orders = append(orders, broker.TargetOrder{Symbol: sym, Weight: 0, Reason: reasonRebalance})
			flattened[sym] = true
			r.drop(sym)
		}
	}

	// 4) Set target weights: open, increase, or decrease.
	if targets != nil {
		for _, sym := range targets.Symbols() {
			w := targets.Get(sym)
			pos := positions[sym]
			if flattened[sym] {
				pos = 0
			}
			if w <= 0 && pos == 0 {
				continue
			}
			if last, ok := r.lastWeight[sym]; ok && last == w && pos != 0 {
				// Identical target already in force.
				continue
			}

			orders = append(orders, broker.TargetOrder{Symbol: sym, Weight: w, Reason: reasonTarget})
			if w > 0 {
				if pos == 0 {
					r.entries[sym] = now
				}
				r.lastWeight[sym] = w
			} else {
				r.drop(sym)
			}
		}
	}

	return orders
}

func (r *Reconciler) drop(sym string) {
	delete(r.entries, sym)
	delete(r.lastWeight, sym)
}

func sortedSymbols(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for sym := range m {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
