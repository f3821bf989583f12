package datafeed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// symbolWidth is the fixed zero-padded width of exchange symbols.
const symbolWidth = 6

// Hotlist is the per-day popularity ranking (1 = most popular), loaded once
// per session and immutable afterwards. Rows with a non-numeric rank are
// dropped; for duplicate (date, symbol) rows the last one wins.
type Hotlist struct {
	byDay map[string]map[string]int
}

// LoadHotlist reads a CSV with columns date,symbol,rank.
func LoadHotlist(path string) (*Hotlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("datafeed: open hotlist: %w", err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("datafeed: read hotlist header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, need := range []string{"date", "symbol", "rank"} {
		if _, ok := col[need]; !ok {
			return nil, fmt.Errorf("datafeed: hotlist: missing column %q", need)
		}
	}

	h := &Hotlist{byDay: make(map[string]map[string]int)}
	for line := 2; ; line++ {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("datafeed: hotlist line %d: %w", line, err)
		}

		day, err := parseDay(rec[col["date"]])
		if err != nil {
			return nil, fmt.Errorf("datafeed: hotlist line %d: %w", line, err)
		}
		rank, err := strconv.Atoi(strings.TrimSpace(rec[col["rank"]]))
		if err != nil {
			// Non-numeric ranks are dropped, not fatal.
			continue
		}

		sym := PadSymbol(rec[col["symbol"]])
		m := h.byDay[day]
		if m == nil {
			m = make(map[string]int)
			h.byDay[day] = m
		}
		m[sym] = rank
	}
	return h, nil
}

// ForDay returns the symbol -> rank map for the calendar day of t, or nil
// when no data exists for that day. Callers treat nil as "all pass".
func (h *Hotlist) ForDay(t time.Time) map[string]int {
	return h.byDay[t.Format("2006-01-02")]
}

// PadSymbol zero-pads numeric symbols to the fixed exchange width, so
// "1" and "000001" refer to the same instrument.
func PadSymbol(s string) string {
	s = strings.TrimSpace(s)
	for len(s) < symbolWidth {
		s = "0" + s
	}
	return s
}

func parseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("bad date %q", s)
}
