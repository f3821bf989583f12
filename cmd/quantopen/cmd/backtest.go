package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quantopen/quantopen/backtest"
	"github.com/quantopen/quantopen/broker"
	"github.com/quantopen/quantopen/config"
	"github.com/quantopen/quantopen/datafeed"
	"github.com/quantopen/quantopen/journal"
	"github.com/quantopen/quantopen/risk"
	"github.com/quantopen/quantopen/signals"
	"github.com/quantopen/quantopen/sim"
	"github.com/quantopen/quantopen/strategy"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay minute bars through a strategy and the broker simulator",
	Long: `Backtest replays the configured bar dataset tick by tick: positions are
marked to market, hold timeouts close expired names, the strategy rebalances
on its schedule, and drawdown throttles exposure.

Supported strategies:
  - momentum: hotlist momentum on 1-tick returns (default)
  - remote:   alpha scores from the signal subscription (needs signals config)

Example:
  quantopen backtest --config run.yaml --strategy momentum`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btStrategy   string
	btCloseEnd   bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to run config (YAML or JSON) (required)")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "momentum", "strategy name (momentum, remote)")
	backtestCmd.Flags().BoolVar(&btCloseEnd, "close-end", true, "close all open positions at end of replay")

	backtestCmd.MarkFlagRequired("config")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(btConfigPath)
	if err != nil {
		return err
	}

	symbols := make([]string, 0, len(cfg.Data.Symbols))
	for _, s := range cfg.Data.Symbols {
		symbols = append(symbols, datafeed.PadSymbol(s))
	}

	series, err := datafeed.LoadBarDir(cfg.Data.BarsDir, symbols)
	if err != nil {
		return err
	}

	var hotlist *datafeed.Hotlist
	if cfg.Data.HotlistCSV != "" {
		if hotlist, err = datafeed.LoadHotlist(cfg.Data.HotlistCSV); err != nil {
			return err
		}
	}
	var themes map[string]float64
	if cfg.Data.ThemesCSV != "" {
		if themes, err = datafeed.LoadThemes(cfg.Data.ThemesCSV); err != nil {
			return err
		}
	}

	var (
		jour    journal.Journal
		summary *journal.SQLite
	)
	switch cfg.Journal.Type {
	case "sqlite":
		db, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		jour, summary = db, db
	case "csv":
		cj, err := journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
		if err != nil {
			return fmt.Errorf("open csv journal: %w", err)
		}
		defer cj.Close()
		jour = cj
	default:
		return fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}

	engine := sim.NewEngine(broker.Account{
		ID:   cfg.Account.ID,
		Cash: cfg.Account.Cash,
	}, sim.DefaultCommission(), jour)

	ctrl, err := risk.NewDrawdownController(cfg.Account.Cash, cfg.Strategy.MaxAccountDrawdown)
	if err != nil {
		return err
	}

	core, err := buildStrategy(btStrategy, cfg)
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	runner := &backtest.Runner{
		Feed:    backtest.NewSeriesFeed(series),
		Core:    core,
		Broker:  engine,
		Risk:    ctrl,
		Cfg:     cfg.Strategy,
		Hotlist: hotlist,
		Themes:  themes,
		Logger:  slog.Default(),
		Options: backtest.RunnerOptions{CloseEnd: btCloseEnd},
	}

	fmt.Printf("Running backtest with strategy: %s\n", btStrategy)
	fmt.Printf("  Bars: %s (%d symbols)\n", cfg.Data.BarsDir, len(series))
	fmt.Printf("  Journal: %s\n\n", cfg.Journal.Type)

	res, err := runner.Run(context.Background(), summary)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Printf("Backtest Complete!\n")
	fmt.Printf("  Cash: $%.2f\n", res.FinalCash)
	fmt.Printf("  Equity: $%.2f\n", res.FinalEquity)
	fmt.Printf("  Max Drawdown: %.2f%%\n", res.MaxDrawdown*100)
	if res.Trades > 0 {
		fmt.Printf("  Trades: %d (%d wins, %d losses)\n", res.Trades, res.Wins, res.Losses)
	}
	return nil
}

// buildStrategy wires the registry once per run and resolves the requested
// variant. The remote strategy only registers when the signal subscription
// is configured.
func buildStrategy(name string, cfg *config.Config) (strategy.Core, error) {
	reg := strategy.NewRegistry()

	if err := reg.Register("momentum", func(c strategy.Config) (strategy.Core, error) {
		return strategy.NewMomentum(c), nil
	}); err != nil {
		return nil, err
	}

	if cfg.Signals.BaseURL != "" {
		client := signals.NewClient(cfg.Signals.BaseURL, cfg.Signals.APIKey)
		universe := cfg.Signals.Universe
		if err := reg.Register("remote", func(c strategy.Config) (strategy.Core, error) {
			return strategy.NewRemote(client, universe, c), nil
		}); err != nil {
			return nil, err
		}
	}

	return reg.New(name, cfg.Strategy)
}
