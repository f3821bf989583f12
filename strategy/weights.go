package strategy

// Weights is an ordered symbol -> target weight mapping. Iteration order is
// insertion order, so a ranking converted to weights keeps its ranking
// order all the way to the reconciler.
type Weights struct {
	symbols []string
	w       map[string]float64
}

func NewWeights() *Weights {
	return &Weights{w: make(map[string]float64)}
}

// Set inserts or replaces a weight. First insertion fixes the symbol's
// position in iteration order.
func (t *Weights) Set(symbol string, weight float64) {
	if _, ok := t.w[symbol]; !ok {
		t.symbols = append(t.symbols, symbol)
	}
	t.w[symbol] = weight
}

func (t *Weights) Get(symbol string) float64 { return t.w[symbol] }

func (t *Weights) Has(symbol string) bool {
	_, ok := t.w[symbol]
	return ok
}

// Symbols returns symbols in insertion order. The returned slice is shared;
// callers must not modify it.
func (t *Weights) Symbols() []string { return t.symbols }

func (t *Weights) Len() int {
	if t == nil {
		return 0
	}
	return len(t.symbols)
}

// Sum returns the total allocated weight.
func (t *Weights) Sum() float64 {
	var sum float64
	for _, w := range t.w {
		sum += w
	}
	return sum
}
