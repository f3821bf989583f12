// Package journal records executed trades and the equity curve of a run.
package journal

import "time"

// TradeRecord is one round trip: opened when a symbol left flat, closed
// when it returned to flat. RealizedPL is net of commissions.
type TradeRecord struct {
	TradeID    string
	Symbol     string
	Shares     float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Commission float64
	Reason     string
}

// EquitySnapshot is the account state after a tick has been processed.
type EquitySnapshot struct {
	Time      time.Time
	Cash      float64
	Equity    float64
	Positions int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Useful for tests and dry runs.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
