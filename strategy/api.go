package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/quantopen/quantopen/market"
)

// MarketState carries cross-sectional market context for a tick. It only
// holds the simulated clock for now; index level, volatility regime and the
// like can be added later without touching the Core interface.
type MarketState struct {
	Time time.Time
}

// AccountState is the account view handed to strategies: equity, running
// peak and the drawdown fraction (0..1) derived from them. It is recomputed
// every tick before any decision logic runs.
type AccountState struct {
	Equity     float64
	PeakEquity float64
	Drawdown   float64
}

// Config is the immutable per-run strategy configuration.
type Config struct {
	// Universe / selection
	TopK               int     `json:"topk" yaml:"topk"`
	MaxPositions       int     `json:"max_positions" yaml:"max_positions"`
	MaxWeightPerSymbol float64 `json:"max_weight_per_symbol" yaml:"max_weight_per_symbol"`

	// Filters
	HotTopN           int     `json:"hot_topn" yaml:"hot_topn"`
	MinAmount         float64 `json:"min_amount" yaml:"min_amount"`
	LimitUpThreshold  float64 `json:"limit_up_threshold" yaml:"limit_up_threshold"`
	LiquidityLookback int     `json:"liquidity_lookback" yaml:"liquidity_lookback"`
	FilterLimitDown   bool    `json:"filter_limit_down" yaml:"filter_limit_down"`

	// Execution
	RebalanceEveryMinutes int `json:"rebalance_every_minutes" yaml:"rebalance_every_minutes"`
	HoldMinutes           int `json:"hold_minutes" yaml:"hold_minutes"`

	// Risk control. RiskOffWeight is consumed by the RiskOff helper for
	// pipelines that de-risk to a non-zero floor; the reference tick loop
	// always flattens to zero once the drawdown stop latches, so the
	// field has no effect there.
	MaxAccountDrawdown float64 `json:"max_account_drawdown" yaml:"max_account_drawdown"`
	RiskOffWeight      float64 `json:"risk_off_weight" yaml:"risk_off_weight"`
}

// DefaultConfig mirrors the defaults the strategy has always shipped with:
// 5 names, 10% cap, 9.5% limit-up proxy, 5-minute rebalance, 60-minute
// holds, 8% account drawdown cutoff.
func DefaultConfig() Config {
	return Config{
		TopK:                  5,
		MaxPositions:          5,
		MaxWeightPerSymbol:    0.10,
		HotTopN:               50,
		MinAmount:             2_000_000,
		LimitUpThreshold:      0.095,
		LiquidityLookback:     30,
		RebalanceEveryMinutes: 5,
		HoldMinutes:           60,
		MaxAccountDrawdown:    0.08,
		RiskOffWeight:         0.0,
	}
}

// Validate fails fast on configurations that would make the simulation
// meaningless. It must be called before any tick is processed.
func (c Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("strategy: topk must be positive (got %d)", c.TopK)
	}
	if c.MaxPositions <= 0 {
		return fmt.Errorf("strategy: max_positions must be positive (got %d)", c.MaxPositions)
	}
	if c.MaxWeightPerSymbol <= 0 || c.MaxWeightPerSymbol > 1 {
		return fmt.Errorf("strategy: max_weight_per_symbol must be in (0,1] (got %v)", c.MaxWeightPerSymbol)
	}
	if c.RebalanceEveryMinutes <= 0 {
		return fmt.Errorf("strategy: rebalance_every_minutes must be positive (got %d)", c.RebalanceEveryMinutes)
	}
	if c.HoldMinutes <= 0 {
		return fmt.Errorf("strategy: hold_minutes must be positive (got %d)", c.HoldMinutes)
	}
	if c.MaxAccountDrawdown <= 0 || c.MaxAccountDrawdown >= 1 {
		return fmt.Errorf("strategy: max_account_drawdown must be in (0,1) (got %v)", c.MaxAccountDrawdown)
	}
	if c.RiskOffWeight < 0 || c.RiskOffWeight > c.MaxWeightPerSymbol {
		return fmt.Errorf("strategy: risk_off_weight must be in [0, max_weight_per_symbol] (got %v)", c.RiskOffWeight)
	}
	if c.LimitUpThreshold <= 0 {
		return fmt.Errorf("strategy: limit_up_threshold must be positive (got %v)", c.LimitUpThreshold)
	}
	return nil
}

// SymbolScore pairs a symbol with its alpha score. Slices of SymbolScore
// preserve ordering, which carries the deterministic tie-break through the
// selection pipeline.
type SymbolScore struct {
	Symbol string
	Score  float64
}

// Core is the pluggable strategy surface: score the universe, filter and
// rank survivors, turn the ranking into target weights. Implementations are
// resolved once at startup through a Registry and injected into the runner;
// nothing is looked up dynamically per run.
//
// Hot maps symbol to popularity rank (1 = most popular) for the current
// day; themes maps symbol to a static boost. Both may be nil, in which case
// the related filters and boosts degrade to no-ops.
type Core interface {
	// AlphaScore returns one finite score per symbol it knows how to score,
	// in a deterministic order. Symbols absent from the output are treated
	// as unscored and excluded from candidacy.
	AlphaScore(ctx context.Context, now time.Time, snap *market.Snapshot, hot map[string]int, themes map[string]float64, mkt MarketState) ([]SymbolScore, error)

	// FilterAndSelect removes untradable symbols and returns survivors
	// sorted by score descending (stable for equal scores).
	FilterAndSelect(ctx context.Context, now time.Time, scores []SymbolScore, snap *market.Snapshot, hot map[string]int, themes map[string]float64, mkt MarketState) ([]SymbolScore, error)

	// BuildTargetWeights converts the selection into target weights in
	// [0,1]. Account-level risk scaling is applied by the caller after this
	// step.
	BuildTargetWeights(ctx context.Context, now time.Time, selected []SymbolScore, account AccountState, cfg Config) (*Weights, error)
}
