// Package broker defines the order-matching/accounting collaborator the
// simulation core talks to. The core only ever submits target weights; fill
// order and cost application are the collaborator's business.
package broker

import (
	"context"
	"time"

	"github.com/quantopen/quantopen/market"
)

// Account is the collaborator's view of the account after the latest batch.
type Account struct {
	ID     string
	Cash   float64
	Equity float64
}

// TargetOrder instructs the broker to move a symbol's position to a target
// fraction of account equity. Weight 0 closes the position.
type TargetOrder struct {
	Symbol string
	Weight float64
	Reason string
}

// Broker executes target-weight batches and reports resulting state.
//
// UpdateBars feeds the tick's bars in so a simulator can mark positions to
// market before decisions are made; live implementations may treat it as a
// no-op. Both Positions and Account must reflect all batches submitted so
// far.
type Broker interface {
	UpdateBars(ctx context.Context, now time.Time, bars []market.Bar) error
	Account(ctx context.Context) (Account, error)
	// Positions returns per-symbol position sizes in shares; flat symbols
	// are absent.
	Positions(ctx context.Context) (map[string]float64, error)
	// SubmitTargets executes one unordered batch for the tick.
	SubmitTargets(ctx context.Context, now time.Time, orders []TargetOrder) error
}
