package datafeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadThemes(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "themes.csv",
		"symbol,theme_boost\n"+
			"1,0.05\n"+
			"000300,0.1\n")

	themes, err := LoadThemes(path)
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, 0.05, themes["000001"])
	assert.Equal(t, 0.1, themes["000300"])
}

func TestLoadThemesBadBoostCountsAsZero(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "themes.csv",
		"symbol,theme_boost\n"+
			"000001,high\n"+
			"000002,-0.5\n")

	themes, err := LoadThemes(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, themes["000001"])
	// Negative boosts clamp to zero.
	assert.Equal(t, 0.0, themes["000002"])
}

func TestLoadThemesMissingSymbolColumn(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "themes.csv", "theme_boost\n0.1\n")
	_, err := LoadThemes(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}
