package datafeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHotlist(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "hot.csv",
		"date,symbol,rank\n"+
			"2024-01-02,1,1\n"+
			"2024-01-02,000300,2\n"+
			"2024-01-03,000001,5\n")

	h, err := LoadHotlist(path)
	require.NoError(t, err)

	day1 := h.ForDay(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	require.NotNil(t, day1)
	// Symbols are zero-padded on load.
	assert.Equal(t, 1, day1["000001"])
	assert.Equal(t, 2, day1["000300"])

	day2 := h.ForDay(time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))
	require.NotNil(t, day2)
	assert.Equal(t, 5, day2["000001"])

	// Unknown day: nil, callers treat as "all pass".
	assert.Nil(t, h.ForDay(time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)))
}

func TestLoadHotlistDropsBadRanks(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "hot.csv",
		"date,symbol,rank\n"+
			"2024-01-02,000001,n/a\n"+
			"2024-01-02,000002,3\n")

	h, err := LoadHotlist(path)
	require.NoError(t, err)

	day := h.ForDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, day)
	assert.NotContains(t, day, "000001")
	assert.Equal(t, 3, day["000002"])
}

func TestLoadHotlistDuplicateLastWins(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "hot.csv",
		"date,symbol,rank\n"+
			"2024-01-02,000001,7\n"+
			"2024-01-02,000001,2\n")

	h, err := LoadHotlist(path)
	require.NoError(t, err)

	day := h.ForDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, day["000001"])
}

func TestLoadHotlistAlternateDateLayouts(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "hot.csv",
		"date,symbol,rank\n"+
			"2024/01/02,000001,1\n"+
			"20240103,000002,1\n")

	h, err := LoadHotlist(path)
	require.NoError(t, err)
	assert.NotNil(t, h.ForDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.NotNil(t, h.ForDay(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestLoadHotlistErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing column", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "hot.csv", "date,symbol\n")
		_, err := LoadHotlist(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing column")
	})

	t.Run("bad date", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "hot.csv", "date,symbol,rank\nyesterday,000001,1\n")
		_, err := LoadHotlist(path)
		assert.Error(t, err)
	})
}

func TestPadSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"1", "000001"},
		{"000001", "000001"},
		{" 42 ", "000042"},
		{"600519", "600519"},
		{"1234567", "1234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PadSymbol(tt.in))
	}
}
