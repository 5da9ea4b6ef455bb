package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Market Oracle - signal scoring and portfolio simulation engine",
	Long: `Market Oracle scans a watchlist of NSE/BSE symbols, blends technical
indicators, fundamentals, and news sentiment into BUY/SELL/HOLD
recommendations, and feeds them into a persistent paper-trading
portfolio.

Usage:
  go run ./cmd/oracle [command]

Examples:
  go run ./cmd/oracle scan
  go run ./cmd/oracle analyze TCS.NS
  go run ./cmd/oracle portfolio
  go run ./cmd/oracle serve`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
