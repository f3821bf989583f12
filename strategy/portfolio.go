package strategy

// TopKEqualWeight turns a descending-sorted selection into equal, capped
// weights. It takes the first min(topk, max_positions) entries and assigns
// each weight min(max_weight_per_symbol, 1/n). Callers must pre-sort
// selected (FilterAndSelect output already is); ties keep input order.
func TopKEqualWeight(selected []SymbolScore, cfg Config) *Weights {
	out := NewWeights()
	n := len(selected)
	if n > cfg.TopK {
		n = cfg.TopK
	}
	if n > cfg.MaxPositions {
		n = cfg.MaxPositions
	}
	if n == 0 {
		return out
	}

	w := 1.0 / float64(n)
	if w > cfg.MaxWeightPerSymbol {
		w = cfg.MaxWeightPerSymbol
	}
	for _, s := range selected[:n] {
		out.Set(s.Symbol, w)
	}
	return out
}

// RiskOff overrides every weight to the configured risk-off weight,
// typically 0. The reference tick loop does not call it: under the
// latched stop it skips target construction and flattens every open
// position outright. RiskOff is for custom pipelines that de-risk to a
// non-zero floor instead of going fully flat.
func RiskOff(t *Weights, cfg Config) *Weights {
	out := NewWeights()
	for _, sym := range t.Symbols() {
		out.Set(sym, cfg.RiskOffWeight)
	}
	return out
}

// Scale multiplies every weight by scale, implementing gradual de-risking
// under drawdown. Scale 1 returns an identical copy.
func Scale(t *Weights, scale float64) *Weights {
	out := NewWeights()
	for _, sym := range t.Symbols() {
		out.Set(sym, t.Get(sym)*scale)
	}
	return out
}
