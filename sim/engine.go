// Package sim is the reference broker simulator: it executes target-weight
// batches at the latest close, applies the commission model, and keeps the
// account marked to market.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantopen/quantopen/broker"
	"github.com/quantopen/quantopen/internal/id"
	"github.com/quantopen/quantopen/journal"
	"github.com/quantopen/quantopen/market"
)

// position is the engine's private per-symbol accounting. A round trip is
// journaled when shares return to zero.
type position struct {
	id         string
	shares     float64
	bought     float64 // cumulative shares bought, for the trade record
	costBasis  float64 // cash paid including fees, reduced pro rata on sells
	entryPrice float64 // volume-weighted entry
	openTime   time.Time
	realized   float64
	commission float64
}

// Engine implements broker.Broker against in-memory state. Orders fill at
// the symbol's latest close; there is no slippage model and no shorting
// (negative targets clamp to flat).
type Engine struct {
	mu     sync.Mutex
	acct   broker.Account
	comm   Commission
	jour   journal.Journal
	prices map[string]float64
	pos    map[string]*position
}

func NewEngine(acct broker.Account, comm Commission, j journal.Journal) *Engine {
	if j == nil {
		j = journal.Nop{}
	}
	acct.Equity = acct.Cash
	return &Engine{
		acct:   acct,
		comm:   comm,
		jour:   j,
		prices: make(map[string]float64),
		pos:    make(map[string]*position),
	}
}

// UpdateBars marks positions to the new closes, refreshes equity and
// journals an equity snapshot. The runner calls this first every tick.
func (e *Engine) UpdateBars(_ context.Context, now time.Time, bars []market.Bar) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, b := range bars {
		e.prices[b.Symbol] = b.Close
	}
	e.revalueLocked()

	return e.jour.RecordEquity(journal.EquitySnapshot{
		Time:      now,
		Cash:      e.acct.Cash,
		Equity:    e.acct.Equity,
		Positions: len(e.pos),
	})
}

func (e *Engine) Account(_ context.Context) (broker.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct, nil
}

func (e *Engine) Positions(_ context.Context) (map[string]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]float64, len(e.pos))
	for sym, p := range e.pos {
		out[sym] = p.shares
	}
	return out, nil
}

// SubmitTargets executes one batch. Each order moves the symbol to
// weight * equity at the latest close; equity is re-marked after the batch.
func (e *Engine) SubmitTargets(_ context.Context, now time.Time, orders []broker.TargetOrder) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, o := range orders {
		if err := e.executeLocked(now, o); err != nil {
			return err
		}
	}
	e.revalueLocked()
	return nil
}

func (e *Engine) executeLocked(now time.Time, o broker.TargetOrder) error {
	p := e.pos[o.Symbol]
	if o.Weight <= 0 && p == nil {
		return nil
	}

	price, ok := e.prices[o.Symbol]
	if !ok || price <= 0 {
		return fmt.Errorf("sim: no price for %q", o.Symbol)
	}

	var current float64
	if p != nil {
		current = p.shares * price
	}
	target := o.Weight * e.acct.Equity
	if target < 0 {
		target = 0
	}
	delta := target - current
	if delta > -1e-9 && delta < 1e-9 {
		return nil
	}

	if delta > 0 {
		e.buyLocked(now, o.Symbol, delta/price, price)
		return nil
	}
	return e.sellLocked(now, o.Symbol, -delta/price, price, o.Reason)
}

func (e *Engine) buyLocked(now time.Time, sym string, shares, price float64) {
	value := shares * price
	fee := e.comm.Fee(value, false)
	e.acct.Cash -= value + fee

	p := e.pos[sym]
	if p == nil {
		p = &position{id: id.New(), openTime: now}
		e.pos[sym] = p
	}
	p.entryPrice = (p.entryPrice*p.shares + price*shares) / (p.shares + shares)
	p.shares += shares
	p.bought += shares
	p.costBasis += value + fee
	p.commission += fee
}

func (e *Engine) sellLocked(now time.Time, sym string, shares, price float64, reason string) error {
	p := e.pos[sym]
	if p == nil {
		return nil
	}
	if shares > p.shares {
		shares = p.shares
	}

	value := shares * price
	fee := e.comm.Fee(value, true)
	e.acct.Cash += value - fee

	soldBasis := p.costBasis * shares / p.shares
	p.costBasis -= soldBasis
	p.shares -= shares
	p.realized += (value - fee) - soldBasis
	p.commission += fee

	if p.shares > 1e-9 {
		return nil
	}

	// Round trip complete.
	delete(e.pos, sym)
	if reason == "" {
		reason = "Target"
	}
	return e.jour.RecordTrade(journal.TradeRecord{
		TradeID:    p.id,
		Symbol:     sym,
		Shares:     p.bought,
		EntryPrice: p.entryPrice,
		ExitPrice:  price,
		OpenTime:   p.openTime,
		CloseTime:  now,
		RealizedPL: p.realized,
		Commission: p.commission,
		Reason:     reason,
	})
}

func (e *Engine) revalueLocked() {
	equity := e.acct.Cash
	for sym, p := range e.pos {
		equity += p.shares * e.prices[sym]
	}
	e.acct.Equity = equity
}
