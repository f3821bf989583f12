package strategy

import (
	"context"
	"sort"
	"time"

	"github.com/quantopen/quantopen/market"
)

// hotRankBonusMax is the score bonus for the most popular symbol; the bonus
// decays linearly to 0 at rank hot_topn.
const hotRankBonusMax = 0.1

// Momentum is the built-in rules-based Core variant: the alpha score is the
// 1-minute return plus a popularity bonus plus the static theme boost.
// Selection applies the limit-up, liquidity and popularity gates and sorts
// descending by score.
type Momentum struct {
	cfg Config
	liq *LiquidityTracker
}

func NewMomentum(cfg Config) *Momentum {
	return &Momentum{
		cfg: cfg,
		liq: NewLiquidityTracker(cfg.LiquidityLookback, cfg.MinAmount),
	}
}

func (m *Momentum) AlphaScore(_ context.Context, _ time.Time, snap *market.Snapshot, hot map[string]int, themes map[string]float64, _ MarketState) ([]SymbolScore, error) {
	out := make([]SymbolScore, 0, snap.Len())
	for _, sym := range snap.Symbols() {
		r, _ := snap.Row(sym)
		score := r.Ret1
		if rank, ok := hot[sym]; ok && m.cfg.HotTopN > 0 && rank >= 1 && rank <= m.cfg.HotTopN {
			score += hotRankBonusMax * (1.0 - float64(rank-1)/float64(m.cfg.HotTopN))
		}
		score += themes[sym]
		out = append(out, SymbolScore{Symbol: sym, Score: score})
	}
	return out, nil
}

func (m *Momentum) FilterAndSelect(_ context.Context, _ time.Time, scores []SymbolScore, snap *market.Snapshot, hot map[string]int, _ map[string]float64, _ MarketState) ([]SymbolScore, error) {
	m.liq.Observe(snap)

	kept := make([]SymbolScore, 0, len(scores))
	for _, s := range scores {
		r, ok := snap.Row(s.Symbol)
		if !ok {
			continue
		}
		if IsLimitUp(r, m.cfg.LimitUpThreshold) {
			continue
		}
		if m.cfg.FilterLimitDown && IsLimitDown(r, m.cfg.LimitUpThreshold) {
			continue
		}
		if !m.liq.Allowed(s.Symbol) {
			continue
		}
		if !HotRankAllowed(hot, s.Symbol, m.cfg.HotTopN) {
			continue
		}
		kept = append(kept, s)
	}

	// Stable: equal scores keep snapshot (symbol) order.
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	return kept, nil
}

func (m *Momentum) BuildTargetWeights(_ context.Context, _ time.Time, selected []SymbolScore, _ AccountState, cfg Config) (*Weights, error) {
	return TopKEqualWeight(selected, cfg), nil
}
