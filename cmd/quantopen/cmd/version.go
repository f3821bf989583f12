package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the quantopen CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quantopen version %s\n", version)
		fmt.Println("An intraday rules-driven backtesting platform")
		fmt.Println("https://github.com/quantopen/quantopen")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
