package market

// Row is the per-symbol feature row of a Snapshot at one tick.
// Ret1 is the single-bar return (close/prev_close - 1).
type Row struct {
	Close     float64
	PrevClose float64
	Amount    float64
	Ret1      float64
}

// Snapshot is the per-tick market view: one Row per tradable symbol with
// data available at the tick. Symbols keep insertion order so downstream
// ranking stays deterministic. A Snapshot is built once per tick and never
// mutated afterwards.
type Snapshot struct {
	symbols []string
	rows    map[string]Row
}

func NewSnapshot() *Snapshot {
	return &Snapshot{rows: make(map[string]Row)}
}

// Add inserts or replaces the row for symbol. First insertion fixes the
// symbol's position in iteration order.
func (s *Snapshot) Add(symbol string, r Row) {
	if _, ok := s.rows[symbol]; !ok {
		s.symbols = append(s.symbols, symbol)
	}
	s.rows[symbol] = r
}

func (s *Snapshot) Row(symbol string) (Row, bool) {
	r, ok := s.rows[symbol]
	return r, ok
}

// Symbols returns symbols in insertion order. The returned slice is shared;
// callers must not modify it.
func (s *Snapshot) Symbols() []string { return s.symbols }

func (s *Snapshot) Len() int { return len(s.symbols) }
