package market

import "time"

// Bar is one minute of OHLCV data for a single symbol.
// Amount is the traded amount (price * volume) over the bar, used by
// liquidity filtering.
type Bar struct {
	Symbol string
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Amount float64
}
