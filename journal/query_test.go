package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTrades(t *testing.T, j *SQLite) (time.Time, time.Time, time.Time) {
	t.Helper()

	t1 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	for i, ct := range []time.Time{t1, t2, t3} {
		rec := TradeRecord{
			TradeID:    []string{"T1", "T2", "T3"}[i],
			Symbol:     "000001",
			Shares:     100,
			OpenTime:   ct.Add(-time.Hour),
			CloseTime:  ct,
			RealizedPL: float64(i - 1), // -1, 0, 1
			Reason:     "Rebalance",
		}
		require.NoError(t, j.RecordTrade(rec))
	}
	return t1, t2, t3
}

func TestGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	seedTrades(t, j)

	rec, err := j.GetTrade("T2")
	require.NoError(t, err)
	assert.Equal(t, "T2", rec.TradeID)
	assert.Equal(t, "000001", rec.Symbol)
	assert.InDelta(t, 0, rec.RealizedPL, 1e-9)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, err := j.GetTrade("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	t1, t2, t3 := seedTrades(t, j)

	// Half-open window: includes t1 and t2, excludes t3.
	recs, err := j.ListTradesClosedBetween(t1, t3)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "T1", recs[0].TradeID)
	assert.Equal(t, "T2", recs[1].TradeID)
	assert.Equal(t, t2.UTC(), recs[1].CloseTime.UTC())

	// Empty window.
	recs, err = j.ListTradesClosedBetween(t3.Add(time.Hour), t3.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEquityRange(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	for i, eq := range []float64{100_000, 97_000, 103_000} {
		require.NoError(t, j.RecordEquity(EquitySnapshot{
			Time:   base.Add(time.Duration(i) * time.Minute),
			Cash:   eq,
			Equity: eq,
		}))
	}

	lo, hi, err := j.EquityRange(base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 97_000, lo, 1e-9)
	assert.InDelta(t, 103_000, hi, 1e-9)

	lo, hi, err = j.EquityRange(base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)
}
