// Package datafeed loads the file-based inputs of a run: per-symbol minute
// bars, the daily popularity hotlist, and the static theme table. It also
// ships the bar-archive fetcher that populates the bars directory.
package datafeed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quantopen/quantopen/market"
)

// Minute bars use a local wall-clock timestamp without zone suffix.
const barTimeLayout = "2006-01-02 15:04:05"

// LoadBars reads one symbol's bar CSV
// (datetime,open,high,low,close,volume,amount), sorts ascending by
// datetime and drops duplicate timestamps (first occurrence wins). A
// missing amount column degrades to zero amounts.
func LoadBars(path, symbol string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("datafeed: open bars: %w", err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("datafeed: read bars header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, need := range []string{"datetime", "open", "high", "low", "close", "volume"} {
		if _, ok := col[need]; !ok {
			return nil, fmt.Errorf("datafeed: %s: missing column %q", path, need)
		}
	}
	amountIdx, hasAmount := col["amount"]

	var bars []market.Bar
	for line := 2; ; line++ {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("datafeed: %s line %d: %w", path, line, err)
		}

		ts, err := parseBarTime(rec[col["datetime"]])
		if err != nil {
			return nil, fmt.Errorf("datafeed: %s line %d: %w", path, line, err)
		}

		b := market.Bar{Symbol: symbol, Time: ts}
		if b.Open, err = parseField(rec, col["open"]); err != nil {
			return nil, fmt.Errorf("datafeed: %s line %d open: %w", path, line, err)
		}
		if b.High, err = parseField(rec, col["high"]); err != nil {
			return nil, fmt.Errorf("datafeed: %s line %d high: %w", path, line, err)
		}
		if b.Low, err = parseField(rec, col["low"]); err != nil {
			return nil, fmt.Errorf("datafeed: %s line %d low: %w", path, line, err)
		}
		if b.Close, err = parseField(rec, col["close"]); err != nil {
			return nil, fmt.Errorf("datafeed: %s line %d close: %w", path, line, err)
		}
		if b.Volume, err = parseField(rec, col["volume"]); err != nil {
			return nil, fmt.Errorf("datafeed: %s line %d volume: %w", path, line, err)
		}
		if hasAmount && amountIdx < len(rec) {
			if b.Amount, err = parseField(rec, amountIdx); err != nil {
				return nil, fmt.Errorf("datafeed: %s line %d amount: %w", path, line, err)
			}
		}
		bars = append(bars, b)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	// Dedup on datetime, keeping the first occurrence.
	out := bars[:0]
	var last time.Time
	for i, b := range bars {
		if i > 0 && b.Time.Equal(last) {
			continue
		}
		out = append(out, b)
		last = b.Time
	}
	return out, nil
}

// LoadBarDir loads <dir>/<symbol>.csv for each requested symbol. Symbols
// without a file are skipped, matching how runs behave on sparse datasets;
// an empty result is an error because the run could never tick.
func LoadBarDir(dir string, symbols []string) (map[string][]market.Bar, error) {
	series := make(map[string][]market.Bar, len(symbols))
	for _, sym := range symbols {
		path := filepath.Join(dir, sym+".csv")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		bars, err := LoadBars(path, sym)
		if err != nil {
			return nil, err
		}
		if len(bars) > 0 {
			series[sym] = bars
		}
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("datafeed: no bar files found in %s for %d symbols", dir, len(symbols))
	}
	return series, nil
}

func parseBarTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(barTimeLayout, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad datetime %q", s)
	}
	return ts, nil
}

func parseField(rec []string, idx int) (float64, error) {
	if idx >= len(rec) {
		return 0, fmt.Errorf("short row")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", rec[idx])
	}
	return v, nil
}
