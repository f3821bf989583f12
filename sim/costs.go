package sim

// Commission is the deterministic cost model applied to every fill: a flat
// rate on traded value with a per-order minimum, plus sell-side stamp duty.
type Commission struct {
	Rate      float64 // fraction of traded value
	Min       float64 // minimum fee per order
	StampDuty float64 // sell-side only, fraction of traded value
}

// DefaultCommission is the A-share cost model: 3 bps with a 5.0 minimum and
// 0.1% stamp duty on sells.
func DefaultCommission() Commission {
	return Commission{
		Rate:      0.0003,
		Min:       5.0,
		StampDuty: 0.001,
	}
}

// Fee returns the cost of trading the given notional value. The minimum
// only applies when a rate is configured, so the zero Commission is free.
func (c Commission) Fee(value float64, sell bool) float64 {
	if value <= 0 {
		return 0
	}
	fee := value * c.Rate
	if c.Rate > 0 && fee < c.Min {
		fee = c.Min
	}
	if sell {
		fee += value * c.StampDuty
	}
	return fee
}
