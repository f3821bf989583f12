package backtest

import (
	"sort"
	"time"

	"github.com/quantopen/quantopen/market"
)

// Tick is one simulated time step: every bar across the universe sharing
// the same timestamp. Bars are ordered by symbol so downstream iteration is
// deterministic.
type Tick struct {
	Time time.Time
	Bars []market.Bar
}

// BarFeed yields ticks in strictly ascending time order. Implementations
// should be deterministic and return ok=false with a nil error at EOF.
type BarFeed interface {
	Next() (t Tick, ok bool, err error)
	Close() error
}

// SeriesFeed merges per-symbol bar series into a shared timeline. Symbols
// missing a bar at a timestamp are simply absent from that tick; gaps never
// stall the clock.
type SeriesFeed struct {
	symbols []string
	series  map[string][]market.Bar
	cursor  map[string]int
	times   []time.Time
	idx     int
}

// NewSeriesFeed builds a feed over already-sorted, de-duplicated per-symbol
// series (datafeed.LoadBars guarantees both).
func NewSeriesFeed(series map[string][]market.Bar) *SeriesFeed {
	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	seen := make(map[time.Time]bool)
	var times []time.Time
	for _, sym := range symbols {
		for _, b := range series[sym] {
			if !seen[b.Time] {
				seen[b.Time] = true
				times = append(times, b.Time)
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	return &SeriesFeed{
		symbols: symbols,
		series:  series,
		cursor:  make(map[string]int, len(series)),
		times:   times,
	}
}

func (f *SeriesFeed) Next() (Tick, bool, error) {
	if f.idx >= len(f.times) {
		return Tick{}, false, nil
	}
	now := f.times[f.idx]
	f.idx++

	var bars []market.Bar
	for _, sym := range f.symbols {
		bs := f.series[sym]
		c := f.cursor[sym]
		if c < len(bs) && bs[c].Time.Equal(now) {
			bars = append(bars, bs[c])
			f.cursor[sym] = c + 1
		}
	}
	return Tick{Time: now, Bars: bars}, true, nil
}

func (f *SeriesFeed) Close() error { return nil }
