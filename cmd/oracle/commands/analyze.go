package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeWatch bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]...",
	Short: "Score symbols without touching the portfolio",
	Long: `Scores one or more symbols against the stored news corpus. Strictly
read-only with respect to portfolio and trade state; pass --watch to also
add the scored symbols to the watchlist.

Example:
  go run ./cmd/oracle analyze TCS.NS
  go run ./cmd/oracle analyze 500325 INFY.NS --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeWatch, "watch", false, "also add the symbols to the watchlist")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()

	for i, symbol := range args {
		if i > 0 {
			fmt.Println()
		}
		if err := analyzeOne(ctx, d, symbol); err != nil {
			return err
		}
	}
	return nil
}

func analyzeOne(ctx context.Context, d *deps, symbol string) error {
	analysis, err := d.Pipeline.Analyze(ctx, symbol)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}

	o := analysis.Outcome
	if !o.Scored() {
		fmt.Printf("%s could not be scored: %s\n", o.Symbol, o.Skip)
		if o.Detail != "" {
			fmt.Printf("  %s\n", o.Detail)
		}
		return nil
	}

	res := o.Result
	fmt.Printf("%s (%s)\n", res.Symbol, res.Name)
	fmt.Printf("  Price:      %.2f\n", res.Price)
	fmt.Printf("  Action:     %s (%s)\n", res.Action, res.Priority)
	fmt.Printf("  Score:      %.2f (RSI %.2f, sentiment bias %+.2f)\n",
		res.Score, res.RSI, analysis.SentimentBias)
	fmt.Printf("  Target:     %.2f (+%.2f%%)\n", res.TargetPrice, res.PotentialProfitPct)
	fmt.Printf("  Stop:       %.2f (-%.2f%%)\n", res.StopLoss, res.PotentialLossPct)
	fmt.Printf("  Fundamentals: score %.0f, PE %s (sector %s), ROE %s%%, D/E %s\n",
		res.Fundamentals.Score, res.Fundamentals.PE, res.Fundamentals.SectorPE,
		res.Fundamentals.ROEPct, res.Fundamentals.DebtToEquity)

	if !analyzeWatch {
		return nil
	}

	symbols, err := d.Store.LoadWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}
	for _, s := range symbols {
		if s == res.Symbol {
			fmt.Printf("  %s is already on the watchlist\n", res.Symbol)
			return nil
		}
	}
	if err := d.Store.SaveWatchlist(ctx, append(symbols, res.Symbol)); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	fmt.Printf("  Added %s to the watchlist\n", res.Symbol)
	return nil
}
