package strategy

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quantopen/quantopen/market"
)

// AlphaSource supplies externally computed alpha scores per calendar day,
// e.g. a cloud signal subscription. Implementations must be deterministic
// for a given (date, universe) during a run.
type AlphaSource interface {
	AlphaSignals(ctx context.Context, date, universe string) (map[string]float64, error)
}

// Remote is the Core variant backed by an AlphaSource. A source failure is
// surfaced to the caller rather than degraded to empty targets: an empty
// tick would be indistinguishable from "legitimately no candidates".
type Remote struct {
	src      AlphaSource
	universe string
	cfg      Config
	liq      *LiquidityTracker

	// Signals are daily; cache the last fetched day.
	day     string
	signals map[string]float64
}

func NewRemote(src AlphaSource, universe string, cfg Config) *Remote {
	return &Remote{
		src:      src,
		universe: universe,
		cfg:      cfg,
		liq:      NewLiquidityTracker(cfg.LiquidityLookback, cfg.MinAmount),
	}
}

func (r *Remote) AlphaScore(ctx context.Context, now time.Time, snap *market.Snapshot, _ map[string]int, _ map[string]float64, _ MarketState) ([]SymbolScore, error) {
	day := now.Format("2006-01-02")
	if r.signals == nil || r.day != day {
		sig, err := r.src.AlphaSignals(ctx, day, r.universe)
		if err != nil {
			return nil, fmt.Errorf("remote strategy: fetch signals for %s: %w", day, err)
		}
		r.day = day
		r.signals = sig
	}

	out := make([]SymbolScore, 0, snap.Len())
	for _, sym := range snap.Symbols() {
		score, ok := r.signals[sym]
		if !ok {
			continue
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, fmt.Errorf("remote strategy: non-finite score %v for %s", score, sym)
		}
		out = append(out, SymbolScore{Symbol: sym, Score: score})
	}
	return out, nil
}

func (r *Remote) FilterAndSelect(_ context.Context, _ time.Time, scores []SymbolScore, snap *market.Snapshot, hot map[string]int, _ map[string]float64, _ MarketState) ([]SymbolScore, error) {
	r.liq.Observe(snap)

	kept := make([]SymbolScore, 0, len(scores))
	for _, s := range scores {
		row, ok := snap.Row(s.Symbol)
		if !ok {
			continue
		}
		if IsLimitUp(row, r.cfg.LimitUpThreshold) {
			continue
		}
		if !r.liq.Allowed(s.Symbol) {
			continue
		}
		if !HotRankAllowed(hot, s.Symbol, r.cfg.HotTopN) {
			continue
		}
		kept = append(kept, s)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	return kept, nil
}

func (r *Remote) BuildTargetWeights(_ context.Context, _ time.Time, selected []SymbolScore, _ AccountState, cfg Config) (*Weights, error) {
	return TopKEqualWeight(selected, cfg), nil
}
