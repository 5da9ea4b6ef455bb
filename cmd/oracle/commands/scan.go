package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full watchlist scan and apply it to the portfolio",
	Long: `Refreshes the news corpus, scores every watchlist symbol, applies the
batch to the simulated portfolio, and persists the results.

Example:
  go run ./cmd/oracle scan`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	report, err := d.Pipeline.Run(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Scan completed at %s (sentiment bias %+.2f)\n",
		report.Date.Format("2006-01-02 15:04:05"), report.SentimentBias)
	if report.NewsError != "" {
		fmt.Printf("News degraded: %s\n", report.NewsError)
	}
	if report.NoResults {
		fmt.Println("No symbols scored in this run.")
		return nil
	}

	fmt.Printf("\n%-14s %-10s %8s %6s %8s %10s %10s\n",
		"SYMBOL", "ACTION", "PRICE", "RSI", "SCORE", "TARGET", "STOP")
	for _, res := range report.Results() {
		fmt.Printf("%-14s %-4s %-5s %8.2f %6.2f %8.2f %10.2f %10.2f\n",
			res.Symbol, res.Action, res.Priority, res.Price, res.RSI, res.Score,
			res.TargetPrice, res.StopLoss)
	}

	for _, o := range report.Outcomes {
		if !o.Scored() {
			fmt.Printf("skipped %s: %s\n", o.Symbol, o.Skip)
		}
	}

	if len(report.Opened) > 0 {
		fmt.Printf("\nOpened: %v\n", report.Opened)
	}
	if len(report.Closed) > 0 {
		fmt.Printf("Closed: %v\n", report.Closed)
	}
	return nil
}
