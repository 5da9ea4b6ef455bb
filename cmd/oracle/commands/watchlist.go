package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/oracle/internal/marketdata"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the scan watchlist",
	Long: `Shows or edits the persisted watchlist.

Subcommands:
  list    - show the current watchlist
  add     - add a symbol
  remove  - remove a symbol

Example:
  go run ./cmd/oracle watchlist list
  go run ./cmd/oracle watchlist add INFY.NS
  go run ./cmd/oracle watchlist remove MCX.NS`,
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := initDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		symbols, err := d.Store.LoadWatchlist(context.Background())
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
		}
		for _, s := range symbols {
			fmt.Println(s)
		}
		return nil
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add [symbol]",
	Short: "Add a symbol to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := initDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := context.Background()
		symbol := marketdata.NormalizeSymbol(strings.ToUpper(args[0]))

		symbols, err := d.Store.LoadWatchlist(ctx)
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
		}
		for _, s := range symbols {
			if s == symbol {
				fmt.Printf("%s is already on the watchlist\n", symbol)
				return nil
			}
		}
		if err := d.Store.SaveWatchlist(ctx, append(symbols, symbol)); err != nil {
			return fmt.Errorf("save watchlist: %w", err)
		}
		fmt.Printf("Added %s\n", symbol)
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove [symbol]",
	Short: "Remove a symbol from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := initDeps()
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := context.Background()
		symbol := marketdata.NormalizeSymbol(strings.ToUpper(args[0]))

		symbols, err := d.Store.LoadWatchlist(ctx)
		if err != nil {
			return fmt.Errorf("load watchlist: %w", err)
		}

		kept := make([]string, 0, len(symbols))
		found := false
		for _, s := range symbols {
			if s == symbol {
				found = true
				continue
			}
			kept = append(kept, s)
		}
		if !found {
			return fmt.Errorf("%s is not on the watchlist", symbol)
		}
		if err := d.Store.SaveWatchlist(ctx, kept); err != nil {
			return fmt.Errorf("save watchlist: %w", err)
		}
		fmt.Printf("Removed %s\n", symbol)
		return nil
	},
}

func init() {
	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
	rootCmd.AddCommand(watchlistCmd)
}
