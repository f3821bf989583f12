package strategy

import "github.com/quantopen/quantopen/market"

// Tradability rules shared by strategy variants. All rules are pure
// predicates over the current snapshot row; missing inputs degrade to
// "allow" rather than erroring.

// IsLimitUp reports whether the single-bar return proxy
// (close/prev_close - 1) is at or above threshold. A symbol at limit-up
// cannot realistically be bought into, so it is excluded from candidacy.
func IsLimitUp(r market.Row, threshold float64) bool {
	if r.PrevClose <= 0 {
		return false
	}
	return (r.Close/r.PrevClose - 1.0) >= threshold
}

// IsLimitDown is the symmetric exclusion for limit-down moves. It is
// caller-selected (Config.FilterLimitDown); the default pipeline only
// filters limit-up.
func IsLimitDown(r market.Row, threshold float64) bool {
	if r.PrevClose <= 0 {
		return false
	}
	return (r.Close/r.PrevClose - 1.0) <= -threshold
}

// HotRankAllowed reports whether symbol passes the popularity gate. With no
// hotlist data every symbol passes; with data, a symbol must be ranked and
// within the top topn.
func HotRankAllowed(hot map[string]int, symbol string, topn int) bool {
	if len(hot) == 0 || topn <= 0 {
		return true
	}
	rank, ok := hot[symbol]
	return ok && rank <= topn
}

// LiquidityTracker keeps a rolling average of traded amount per symbol and
// gates candidates on it. Until a symbol has a full lookback window it is
// allowed, matching how the filter has always behaved on short history.
//
// The window advances once per Observe call. The built-in strategies
// observe from FilterAndSelect, so lookback there is measured in
// selection passes (rebalance intervals), not bars; a pipeline that
// wants a per-bar window must call Observe every tick itself.
type LiquidityTracker struct {
	lookback  int
	minAmount float64
	window    map[string][]float64
}

func NewLiquidityTracker(lookback int, minAmount float64) *LiquidityTracker {
	if lookback < 1 {
		lookback = 1
	}
	return &LiquidityTracker{
		lookback:  lookback,
		minAmount: minAmount,
		window:    make(map[string][]float64),
	}
}

// Observe feeds the snapshot's traded amounts into the rolling windows,
// advancing each observed symbol's window by one slot. Call before
// filtering.
func (l *LiquidityTracker) Observe(snap *market.Snapshot) {
	for _, sym := range snap.Symbols() {
		r, _ := snap.Row(sym)
		w := append(l.window[sym], r.Amount)
		if len(w) > l.lookback {
			w = w[len(w)-l.lookback:]
		}
		l.window[sym] = w
	}
}

// Allowed reports whether symbol clears the rolling-average amount floor.
func (l *LiquidityTracker) Allowed(symbol string) bool {
	if l.minAmount <= 0 {
		return true
	}
	w := l.window[symbol]
	if len(w) < l.lookback {
		return true
	}
	var sum float64
	for _, a := range w {
		sum += a
	}
	return sum/float64(len(w)) >= l.minAmount
}

// Avg returns the current rolling average amount for symbol (0 if unseen).
func (l *LiquidityTracker) Avg(symbol string) float64 {
	w := l.window[symbol]
	if len(w) == 0 {
		return 0
	}
	var sum float64
	for _, a := range w {
		sum += a
	}
	return sum / float64(len(w))
}
