package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/oracle/internal/contracts"
)

var portfolioTrades bool

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the simulated portfolio",
	Long: `Prints cash, holdings, and total P/L of the paper-trading portfolio.
Pass --trades to include the full trade ledger.

Example:
  go run ./cmd/oracle portfolio
  go run ./cmd/oracle portfolio --trades`,
	RunE: runPortfolio,
}

func init() {
	portfolioCmd.Flags().BoolVar(&portfolioTrades, "trades", false, "include the trade ledger")
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.Store.LoadPortfolio(context.Background())
	if err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}

	fmt.Printf("Cash:       %s\n", p.Cash.StringFixed(2))
	fmt.Printf("Invested:   %s\n", p.Invested.StringFixed(2))
	fmt.Printf("Total:      %s\n", p.TotalValue.StringFixed(2))
	fmt.Printf("P/L:        %s\n", p.TotalProfitLoss.StringFixed(2))

	if p.HoldingCount() > 0 {
		fmt.Printf("\n%-14s %8s %12s %12s\n", "SYMBOL", "QTY", "AVG PRICE", "BOUGHT")
		for _, h := range p.Holdings {
			fmt.Printf("%-14s %8d %12s %12s\n",
				h.Symbol, h.Qty, h.AvgPrice.StringFixed(2), h.DateBought.Format("2006-01-02"))
		}
	} else {
		fmt.Println("\nNo open positions.")
	}

	if portfolioTrades {
		if len(p.TradeHistory) == 0 {
			fmt.Println("\nNo trades recorded.")
			return nil
		}
		fmt.Printf("\n%-12s %-5s %-14s %8s %12s %12s\n",
			"DATE", "TYPE", "SYMBOL", "QTY", "PRICE", "PROFIT")
		for _, t := range p.TradeHistory {
			profit := ""
			if t.Type == contracts.ActionSell && t.Profit != nil {
				profit = t.Profit.StringFixed(2)
			}
			fmt.Printf("%-12s %-5s %-14s %8d %12s %12s\n",
				t.Date.Format("2006-01-02"), t.Type, t.Symbol, t.Qty,
				t.Price.StringFixed(2), profit)
		}
	}
	return nil
}
