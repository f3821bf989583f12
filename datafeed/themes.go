package datafeed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadThemes reads the static theme table (symbol,theme_boost). Boosts are
// clamped at zero from below; rows with an unparseable boost count as zero
// rather than failing the session.
func LoadThemes(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("datafeed: open themes: %w", err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("datafeed: read themes header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["symbol"]; !ok {
		return nil, fmt.Errorf("datafeed: themes: missing column %q", "symbol")
	}
	boostIdx, hasBoost := col["theme_boost"]

	out := make(map[string]float64)
	for line := 2; ; line++ {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("datafeed: themes line %d: %w", line, err)
		}

		sym := PadSymbol(rec[col["symbol"]])
		var boost float64
		if hasBoost && boostIdx < len(rec) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[boostIdx]), 64); err == nil {
				boost = v
			}
		}
		if boost < 0 {
			boost = 0
		}
		out[sym] = boost
	}
	return out, nil
}
