package backtest

import "time"

// Scheduler gates how often target computation runs. It fires on the first
// tick of a run and then whenever the configured number of simulated
// minutes has elapsed since the last firing. It knows nothing about risk
// state; skipping a rebalance under risk-off is the caller's decision.
type Scheduler struct {
	every time.Duration
	last  time.Time
	fired bool
}

func NewScheduler(everyMinutes int) *Scheduler {
	return &Scheduler{every: time.Duration(everyMinutes) * time.Minute}
}

// ShouldFire reports whether this tick is a rebalance tick. On fire the
// last-fired timestamp advances to now regardless of what the decision
// stages do with it.
func (s *Scheduler) ShouldFire(now time.Time) bool {
	if !s.fired {
		s.fired = true
		s.last = now
		return true
	}
	if now.Sub(s.last) >= s.every {
		s.last = now
		return true
	}
	return false
}
