package commands

import (
	"log/slog"

	"hiscores-backend/lib/serviceutil"
	"hiscores-backend/services/leaderboard"

	"github.com/spf13/cobra"
)

var scrapeOutput *string
var scrapePages *int
var scrapeTable *int
var scrapeCategory *int
var scrapeMetric *string

func init() {
	scrapeOutput = scrapeCmd.Flags().String("out", "data/vorkath_leaderboard.csv", "Where to write the leaderboard CSV.")
	scrapePages = scrapeCmd.Flags().Int("pages", 10, "Leaderboard pages to scrape.")
	scrapeTable = scrapeCmd.Flags().Int("table", leaderboard.VorkathTable, "Boss table index on the hiscore website.")
	scrapeCategory = scrapeCmd.Flags().Int("category", leaderboard.BossCategory, "Hiscore category type.")
	scrapeMetric = scrapeCmd.Flags().String("metric", "vorkath", "Metric name used for the kill count column.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <leaderboard.csv>] [--pages <n>]",
	Short: "Scrapes a boss leaderboard into the CSV the deltas command reads.",
	Run: func(cmd *cobra.Command, args []string) {
		service := leaderboard.NewService(leaderboard.Options{
			Category: *scrapeCategory,
			Table:    *scrapeTable,
			Pages:    *scrapePages,
		})

		rows := service.Run(cmd.Context())
		if len(rows) == 0 {
			slog.Warn("no leaderboard rows collected, leaving the output untouched")
			return
		}

		err := leaderboard.WriteCSV(*scrapeOutput, *scrapeMetric, rows)
		if err != nil {
			serviceutil.Fatal("failed to write leaderboard csv", err)
		}
		slog.Info("leaderboard written", "rows", len(rows), "path", *scrapeOutput)
	},
}
