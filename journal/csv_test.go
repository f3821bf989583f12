package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalWritesRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	now := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(TradeRecord{
		TradeID:    "T1",
		Symbol:     "000001",
		Shares:     500,
		EntryPrice: 10,
		ExitPrice:  10.5,
		OpenTime:   now,
		CloseTime:  now.Add(time.Hour),
		RealizedPL: 250,
		Commission: 12.5,
		Reason:     "Rebalance",
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: now, Cash: 50_000, Equity: 100_000, Positions: 2}))
	require.NoError(t, j.Close())

	tf, err := os.Open(tradesPath)
	require.NoError(t, err)
	defer tf.Close()

	rows, err := csv.NewReader(tf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "000001", rows[1][1])
	assert.Equal(t, "500.000000", rows[1][2])
	assert.Equal(t, now.Format(time.RFC3339), rows[1][5])
	assert.Equal(t, "Rebalance", rows[1][9])

	ef, err := os.Open(equityPath)
	require.NoError(t, err)
	defer ef.Close()

	rows, err = csv.NewReader(ef).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "cash", "equity", "positions"}, rows[0])
	assert.Equal(t, "2", rows[1][3])
}

func TestCSVJournalFlushesPerRow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: time.Now(), Cash: 1, Equity: 1}))

	// Readable before Close: partial runs leave usable output.
	data, err := os.ReadFile(equityPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1.000000")
}

func TestNopJournal(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.RecordEquity(EquitySnapshot{}))
	assert.NoError(t, j.Close())
}
