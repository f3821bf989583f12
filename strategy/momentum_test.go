package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/quantopen/quantopen/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func momentumConfig() Config {
	cfg := DefaultConfig()
	cfg.MinAmount = 0
	cfg.HotTopN = 50
	return cfg
}

func rowFor(prev, close, amount float64) market.Row {
	return market.Row{Close: close, PrevClose: prev, Amount: amount, Ret1: close/prev - 1}
}

func TestMomentumAlphaScore(t *testing.T) {
	t.Parallel()

	m := NewMomentum(momentumConfig())
	now := time.Date(2024, 1, 2, 9, 35, 0, 0, time.UTC)

	snap := market.NewSnapshot()
	snap.Add("000001", rowFor(10, 10.2, 5_000_000)) // ret 0.02
	snap.Add("000002", rowFor(20, 19.8, 5_000_000)) // ret -0.01
	snap.Add("000003", rowFor(30, 30.0, 5_000_000)) // ret 0

	hot := map[string]int{"000001": 1, "000003": 50}
	themes := map[string]float64{"000002": 0.05}

	scores, err := m.AlphaScore(context.Background(), now, snap, hot, themes, MarketState{Time: now})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	byName := map[string]float64{}
	for _, s := range scores {
		byName[s.Symbol] = s.Score
	}

	// Rank 1 of 50 gets the full popularity bonus.
	assert.InDelta(t, 0.02+0.1, byName["000001"], 1e-9)
	// Unranked, theme boost only.
	assert.InDelta(t, -0.01+0.05, byName["000002"], 1e-9)
	// Rank 50 of 50 gets a vanishing bonus.
	assert.InDelta(t, 0.1*(1.0-49.0/50.0), byName["000003"], 1e-9)
}

func TestMomentumFilterLimitUp(t *testing.T) {
	t.Parallel()

	m := NewMomentum(momentumConfig())
	now := time.Now()

	snap := market.NewSnapshot()
	snap.Add("000001", rowFor(10, 11, 5_000_000))   // +10%, at limit
	snap.Add("000002", rowFor(20, 20.4, 5_000_000)) // +2%

	scores, err := m.AlphaScore(context.Background(), now, snap, nil, nil, MarketState{})
	require.NoError(t, err)

	kept, err := m.FilterAndSelect(context.Background(), now, scores, snap, nil, nil, MarketState{})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "000002", kept[0].Symbol)
}

func TestMomentumFilterLimitDownOptIn(t *testing.T) {
	t.Parallel()

	cfg := momentumConfig()
	cfg.FilterLimitDown = true
	m := NewMomentum(cfg)
	now := time.Now()

	snap := market.NewSnapshot()
	snap.Add("000001", rowFor(10, 9, 5_000_000)) // -10%, at limit down
	snap.Add("000002", rowFor(20, 19.8, 5_000_000))

	scores, err := m.AlphaScore(context.Background(), now, snap, nil, nil, MarketState{})
	require.NoError(t, err)

	kept, err := m.FilterAndSelect(context.Background(), now, scores, snap, nil, nil, MarketState{})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "000002", kept[0].Symbol)
}

func TestMomentumFilterHotRank(t *testing.T) {
	t.Parallel()

	cfg := momentumConfig()
	cfg.HotTopN = 2
	m := NewMomentum(cfg)
	now := time.Now()

	snap := market.NewSnapshot()
	snap.Add("000001", rowFor(10, 10.1, 5_000_000))
	snap.Add("000002", rowFor(20, 20.2, 5_000_000))
	snap.Add("000003", rowFor(30, 30.3, 5_000_000))

	hot := map[string]int{"000001": 1, "000002": 2, "000003": 3}

	scores, err := m.AlphaScore(context.Background(), now, snap, hot, nil, MarketState{})
	require.NoError(t, err)

	kept, err := m.FilterAndSelect(context.Background(), now, scores, snap, hot, nil, MarketState{})
	require.NoError(t, err)
	require.Len(t, kept, 2)
	for _, s := range kept {
		assert.NotEqual(t, "000003", s.Symbol)
	}
}

func TestMomentumSortStableOnTies(t *testing.T) {
	t.Parallel()

	m := NewMomentum(momentumConfig())
	now := time.Now()

	// Identical rows, identical scores: snapshot insertion order survives.
	snap := market.NewSnapshot()
	snap.Add("000002", rowFor(10, 10.1, 5_000_000))
	snap.Add("000001", rowFor(10, 10.1, 5_000_000))
	snap.Add("000003", rowFor(10, 10.1, 5_000_000))

	scores, err := m.AlphaScore(context.Background(), now, snap, nil, nil, MarketState{})
	require.NoError(t, err)

	kept, err := m.FilterAndSelect(context.Background(), now, scores, snap, nil, nil, MarketState{})
	require.NoError(t, err)
	require.Len(t, kept, 3)
	assert.Equal(t, "000002", kept[0].Symbol)
	assert.Equal(t, "000001", kept[1].Symbol)
	assert.Equal(t, "000003", kept[2].Symbol)
}

func TestMomentumSortsDescending(t *testing.T) {
	t.Parallel()

	m := NewMomentum(momentumConfig())
	now := time.Now()

	snap := market.NewSnapshot()
	snap.Add("000001", rowFor(10, 10.1, 5_000_000)) // +1%
	snap.Add("000002", rowFor(20, 20.6, 5_000_000)) // +3%
	snap.Add("000003", rowFor(30, 30.6, 5_000_000)) // +2%

	scores, err := m.AlphaScore(context.Background(), now, snap, nil, nil, MarketState{})
	require.NoError(t, err)

	kept, err := m.FilterAndSelect(context.Background(), now, scores, snap, nil, nil, MarketState{})
	require.NoError(t, err)
	require.Len(t, kept, 3)
	assert.Equal(t, "000002", kept[0].Symbol)
	assert.Equal(t, "000003", kept[1].Symbol)
	assert.Equal(t, "000001", kept[2].Symbol)
}

func TestMomentumBuildTargetWeights(t *testing.T) {
	t.Parallel()

	cfg := momentumConfig()
	cfg.TopK = 2
	cfg.MaxPositions = 2
	cfg.MaxWeightPerSymbol = 0.5
	m := NewMomentum(cfg)

	selected := []SymbolScore{{Symbol: "A", Score: 1}, {Symbol: "B", Score: 0.5}, {Symbol: "C", Score: 0.1}}
	w, err := m.BuildTargetWeights(context.Background(), time.Now(), selected, AccountState{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, w.Symbols())
	assert.Equal(t, 0.5, w.Get("A"))
}
