package backtest

import (
	"sort"
	"time"
)

// HoldMonitor reports positions held past the maximum duration. It runs
// every tick, independent of the rebalance cadence, so timeouts are honored
// at minute granularity. It only reports; the reconciler performs the
// closes and removes the records.
type HoldMonitor struct {
	hold time.Duration
}

func NewHoldMonitor(holdMinutes int) *HoldMonitor {
	return &HoldMonitor{hold: time.Duration(holdMinutes) * time.Minute}
}

// Expired returns the symbols whose entry time is at least hold_minutes
// before now, sorted for deterministic instruction order.
func (m *HoldMonitor) Expired(now time.Time, entries map[string]time.Time) []string {
	var out []string
	for sym, openedAt := range entries {
		if now.Sub(openedAt) >= m.hold {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}
