package cmd

import (
	"fmt"

	"github.com/quantopen/quantopen/config"
	"github.com/quantopen/quantopen/signals"
	"github.com/spf13/cobra"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Check the alpha-signal subscription",
	Long: `Verify connectivity and the subscription key against the configured
signal service.

Example:
  quantopen signals --config run.yaml`,
	RunE: runSignals,
}

var signalsConfigPath string

func init() {
	rootCmd.AddCommand(signalsCmd)

	signalsCmd.Flags().StringVarP(&signalsConfigPath, "config", "c", "", "path to run config (YAML or JSON) (required)")
	signalsCmd.MarkFlagRequired("config")
}

func runSignals(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(signalsConfigPath)
	if err != nil {
		return err
	}
	if cfg.Signals.BaseURL == "" {
		return fmt.Errorf("signals.base_url not configured")
	}

	client := signals.NewClient(cfg.Signals.BaseURL, cfg.Signals.APIKey)
	if err := client.Status(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("✓ Signal service reachable: %s\n", cfg.Signals.BaseURL)
	return nil
}
