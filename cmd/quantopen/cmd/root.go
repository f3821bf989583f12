package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quantopen",
	Short: "An intraday rules-driven backtesting platform",
	Long: `Quantopen replays minute bars through a rules-driven intraday strategy
and a broker simulator.

It provides tools for:
  - Backtesting hotlist momentum strategies against minute bars
  - Pulling alpha scores from the cloud signal subscription
  - Managing trade journals and equity curves (CSV or SQLite)
  - Downloading per-symbol bar archives
  - Drawdown-based exposure scaling and stop-trading

Complete documentation is available at https://github.com/quantopen/quantopen`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
