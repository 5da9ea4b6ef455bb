package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/oracle/internal/sentiment"
	"github.com/wonny/oracle/internal/store"
)

var newsRefresh bool

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show the stored news corpus and sentiment bias",
	Long: `Prints the latest fetched news by category with the derived sentiment
bias. Pass --refresh to fetch a fresh corpus first.

Example:
  go run ./cmd/oracle news
  go run ./cmd/oracle news --refresh`,
	RunE: runNews,
}

func init() {
	newsCmd.Flags().BoolVar(&newsRefresh, "refresh", false, "fetch a fresh corpus before printing")
	rootCmd.AddCommand(newsCmd)
}

func runNews(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()

	if newsRefresh {
		if _, err := d.Pipeline.RefreshNews(ctx); err != nil {
			return fmt.Errorf("refresh news: %w", err)
		}
	}

	report, err := d.Store.LoadNews(ctx)
	if err == store.ErrNotFound {
		fmt.Println("No news fetched yet. Run with --refresh.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load news: %w", err)
	}

	fmt.Printf("Fetched %s, %d items, sentiment bias %+.2f\n",
		report.Timestamp.Format("2006-01-02 15:04"), report.ItemCount(), sentiment.Score(report))

	for category, items := range report.Categories {
		fmt.Printf("\n[%s]\n", category)
		if errMsg, ok := report.Errors[category]; ok {
			fmt.Printf("  fetch failed: %s\n", errMsg)
			continue
		}
		for _, item := range items {
			fmt.Printf("  - %s (%s)\n", item.Title, item.Source)
		}
	}
	return nil
}
