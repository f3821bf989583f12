// Package risk tracks account-level drawdown and converts it into an
// exposure scale and a hard stop-trading signal.
package risk

import "fmt"

// DrawdownController tracks peak equity and current drawdown for a run.
// Update must be called once per tick, before any trading decision, so
// later stages see a fresh account view.
//
// The stop-trading state latches: once drawdown reaches the maximum the
// controller reports stop for the remainder of the session, even if equity
// later recovers. Peak equity is never reset downward.
type DrawdownController struct {
	peak    float64
	dd      float64
	maxDD   float64
	stopped bool
}

// NewDrawdownController seeds the peak with starting cash. maxDrawdown is
// the fraction of peak equity (0..1) at which trading stops.
func NewDrawdownController(startingCash, maxDrawdown float64) (*DrawdownController, error) {
	if startingCash <= 0 {
		return nil, fmt.Errorf("risk: starting cash must be positive (got %v)", startingCash)
	}
	if maxDrawdown <= 0 || maxDrawdown >= 1 {
		return nil, fmt.Errorf("risk: max drawdown must be in (0,1) (got %v)", maxDrawdown)
	}
	return &DrawdownController{peak: startingCash, maxDD: maxDrawdown}, nil
}

// Update recomputes the monotonic peak and the drawdown fraction and
// returns the drawdown. It also latches the stop state when the threshold
// is reached.
func (c *DrawdownController) Update(equity float64) float64 {
	if equity > c.peak {
		c.peak = equity
	}
	if c.peak > 0 {
		c.dd = (c.peak - equity) / c.peak
	} else {
		c.dd = 0
	}
	if c.dd < 0 {
		c.dd = 0
	}
	if c.dd >= c.maxDD {
		c.stopped = true
	}
	return c.dd
}

// Drawdown returns the drawdown fraction as of the last Update.
func (c *DrawdownController) Drawdown() float64 { return c.dd }

// PeakEquity returns the running peak, monotonically non-decreasing.
func (c *DrawdownController) PeakEquity() float64 { return c.peak }

// ShouldStopTrading reports the latched stop state. Once true it stays true
// for the rest of the run; the reconciler must flatten and suppress new
// openings from that tick on.
func (c *DrawdownController) ShouldStopTrading() bool { return c.stopped }

// PositionScale returns the exposure multiplier: 1 at zero drawdown, 0 at
// or beyond the maximum (or once stopped), linear in between.
func (c *DrawdownController) PositionScale() float64 {
	if c.stopped || c.dd >= c.maxDD {
		return 0
	}
	if c.dd <= 0 {
		return 1
	}
	return 1 - c.dd/c.maxDD
}
