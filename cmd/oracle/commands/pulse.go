package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var pulseCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Show a live snapshot of headline indices",
	Long: `Fetches current prices for NIFTY 50, SENSEX, and MCX and prints
their daily trend.

Example:
  go run ./cmd/oracle pulse`,
	RunE: runPulse,
}

func init() {
	rootCmd.AddCommand(pulseCmd)
}

func runPulse(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	pulse := d.Pipeline.Pulse(context.Background())

	fmt.Printf("Market %s at %s\n\n", pulse.MarketStatus, pulse.Timestamp.Format("2006-01-02 15:04 MST"))

	names := make([]string, 0, len(pulse.Data))
	for name := range pulse.Data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := pulse.Data[name]
		if entry.Error != "" {
			fmt.Printf("%-12s unavailable: %s\n", name, entry.Error)
			continue
		}
		fmt.Printf("%-12s %10.2f  %+6.2f%%  %s\n", name, entry.Price, entry.ChangePct, entry.Trend)
	}
	return nil
}
