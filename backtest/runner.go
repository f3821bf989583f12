package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantopen/quantopen/broker"
	"github.com/quantopen/quantopen/datafeed"
	"github.com/quantopen/quantopen/journal"
	"github.com/quantopen/quantopen/market"
	"github.com/quantopen/quantopen/risk"
	"github.com/quantopen/quantopen/strategy"
)

// RunnerOptions controls behavior outside the tick loop proper.
type RunnerOptions struct {
	// If true, close all open positions after the dataset is exhausted.
	CloseEnd bool
}

// Result summarizes a finished run. Trade counts come from the journal over
// the observed data time range.
type Result struct {
	FinalCash   float64
	FinalEquity float64
	MaxDrawdown float64
	Trades      int
	Wins        int
	Losses      int
	Start       time.Time
	End         time.Time
}

// Runner drives the simulation tick by tick: mark to market, refresh the
// drawdown state, close hold timeouts, optionally rebalance, reconcile, and
// submit the batch. The sequence is fixed; later stages depend on the state
// refreshed by earlier ones in the same tick.
type Runner struct {
	Feed    BarFeed
	Core    strategy.Core
	Broker  broker.Broker
	Risk    *risk.DrawdownController
	Cfg     strategy.Config
	Hotlist *datafeed.Hotlist  // optional
	Themes  map[string]float64 // optional
	Logger  *slog.Logger       // defaults to slog.Default()
	Options RunnerOptions
}

// Run executes the loop until the feed is exhausted. A scorer or selector
// error aborts the run; an empty tick must never be silently fabricated
// from a failed score. If j is non-nil a trades/wins/losses summary is
// computed from it over the dataset time range.
func (r *Runner) Run(ctx context.Context, j *journal.SQLite) (Result, error) {
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Core == nil {
		return Result{}, fmt.Errorf("backtest: Core is required")
	}
	if r.Broker == nil {
		return Result{}, fmt.Errorf("backtest: Broker is required")
	}
	if r.Risk == nil {
		return Result{}, fmt.Errorf("backtest: Risk is required")
	}
	if err := r.Cfg.Validate(); err != nil {
		return Result{}, err
	}
	defer r.Feed.Close()

	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	sched := NewScheduler(r.Cfg.RebalanceEveryMinutes)
	hold := NewHoldMonitor(r.Cfg.HoldMinutes)
	recon := NewReconciler()
	prevClose := make(map[string]float64)

	var start, end time.Time
	var maxDD float64

	for {
		tick, ok, err := r.Feed.Next()
		if err != nil {
			return Result{}, err
		}
		if !ok {
			break
		}
		if start.IsZero() {
			start = tick.Time
		}
		end = tick.Time

		if err := r.Broker.UpdateBars(ctx, tick.Time, tick.Bars); err != nil {
			return Result{}, err
		}
		acct, err := r.Broker.Account(ctx)
		if err != nil {
			return Result{}, err
		}

		dd := r.Risk.Update(acct.Equity)
		if dd > maxDD {
			maxDD = dd
		}
		stop := r.Risk.ShouldStopTrading()

		positions, err := r.Broker.Positions(ctx)
		if err != nil {
			return Result{}, err
		}
		expired := hold.Expired(tick.Time, recon.Entries())

		// The scheduler advances regardless of risk state; only the
		// decision stages are skipped under the stop.
		rebalance := sched.ShouldFire(tick.Time)

		var targets *strategy.Weights
		if rebalance && !stop {
			snap := buildSnapshot(tick, prevClose)
			if snap.Len() > 0 {
				targets, err = r.computeTargets(ctx, tick.Time, snap, acct, dd)
				if err != nil {
					return Result{}, err
				}
			}
		}
		observeCloses(tick, prevClose)

		orders := recon.Reconcile(tick.Time, positions, targets, rebalance, expired, stop)
		if len(orders) > 0 {
			if err := r.Broker.SubmitTargets(ctx, tick.Time, orders); err != nil {
				return Result{}, err
			}
			log.Info("orders submitted",
				"now", tick.Time,
				"equity", acct.Equity,
				"drawdown", dd,
				"stop", stop,
				"orders", len(orders),
			)
		}
	}

	if r.Options.CloseEnd {
		if err := r.closeAll(ctx, end); err != nil {
			return Result{}, err
		}
	}

	acct, err := r.Broker.Account(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		FinalCash:   acct.Cash,
		FinalEquity: acct.Equity,
		MaxDrawdown: maxDD,
		Start:       start,
		End:         end,
	}

	if j != nil && !start.IsZero() && start.Before(end) {
		// Extend the window slightly so trades closed exactly at end count.
		recs, err := j.ListTradesClosedBetween(start, end.Add(time.Nanosecond))
		if err == nil {
			res.Trades = len(recs)
			for _, tr := range recs {
				if tr.RealizedPL > 0 {
					res.Wins++
				} else if tr.RealizedPL < 0 {
					res.Losses++
				}
			}
		}
	}

	return res, nil
}

// computeTargets runs the score -> select -> weight pipeline and applies
// the drawdown exposure scale.
func (r *Runner) computeTargets(ctx context.Context, now time.Time, snap *market.Snapshot, acct broker.Account, dd float64) (*strategy.Weights, error) {
	var hot map[string]int
	if r.Hotlist != nil {
		hot = r.Hotlist.ForDay(now)
	}

	mkt := strategy.MarketState{Time: now}
	account := strategy.AccountState{
		Equity:     acct.Equity,
		PeakEquity: r.Risk.PeakEquity(),
		Drawdown:   dd,
	}

	scores, err := r.Core.AlphaScore(ctx, now, snap, hot, r.Themes, mkt)
	if err != nil {
		return nil, fmt.Errorf("backtest: alpha score at %s: %w", now, err)
	}
	selected, err := r.Core.FilterAndSelect(ctx, now, scores, snap, hot, r.Themes, mkt)
	if err != nil {
		return nil, fmt.Errorf("backtest: select at %s: %w", now, err)
	}
	targets, err := r.Core.BuildTargetWeights(ctx, now, selected, account, r.Cfg)
	if err != nil {
		return nil, fmt.Errorf("backtest: build weights at %s: %w", now, err)
	}
	return strategy.Scale(targets, r.Risk.PositionScale()), nil
}

func (r *Runner) closeAll(ctx context.Context, now time.Time) error {
	positions, err := r.Broker.Positions(ctx)
	if err != nil {
		return err
	}
	var orders []broker.TargetOrder
	for _, sym := range sortedSymbols(positions) {
		if positions[sym] != 0 {
			orders = append(orders, broker.TargetOrder{Symbol: sym, Weight: 0, Reason: "EndOfReplay"})
		}
	}
	if len(orders) == 0 {
		return nil
	}
	return r.Broker.SubmitTargets(ctx, now, orders)
}

// buildSnapshot assembles the per-tick feature rows. A symbol without a
// previous close (insufficient history) is silently excluded from this
// tick's candidacy.
func buildSnapshot(tick Tick, prevClose map[string]float64) *market.Snapshot {
	snap := market.NewSnapshot()
	for _, b := range tick.Bars {
		prev, ok := prevClose[b.Symbol]
		if !ok || prev <= 0 {
			continue
		}
		snap.Add(b.Symbol, market.Row{
			Close:     b.Close,
			PrevClose: prev,
			Amount:    b.Amount,
			Ret1:      b.Close/prev - 1.0,
		})
	}
	return snap
}

func observeCloses(tick Tick, prevClose map[string]float64) {
	for _, b := range tick.Bars {
		prevClose[b.Symbol] = b.Close
	}
}
