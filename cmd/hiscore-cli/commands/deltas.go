package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"hiscores-backend/lib/serviceutil"
	"hiscores-backend/lib/wiseoldman"
	"hiscores-backend/services/deltas"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var deltasInput *string
var deltasOutput *string
var deltasTarget *string
var deltasMetric *string
var deltasWindow *int

func init() {
	deltasInput = deltasCmd.Flags().String("in", "data/vorkath_leaderboard.csv", "Leaderboard CSV with a username column.")
	deltasOutput = deltasCmd.Flags().String("out", "data/vorkath_deltas.csv", "Where to write the delta CSV.")
	deltasTarget = deltasCmd.Flags().String("target", "", "Past date to compare against (YYYY-MM-DD), required.")
	deltasMetric = deltasCmd.Flags().String("metric", "vorkath", "Wise Old Man metric name.")
	deltasWindow = deltasCmd.Flags().Int("window", 3, "Days around the target date to search for a snapshot.")
	rootCmd.AddCommand(deltasCmd)
}

// loadUsernames reads the username column of a scraped leaderboard CSV.
// Headerless files are treated as a single column of names.
func loadUsernames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	column := 0
	first := true
	var names []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}

		if first {
			first = false
			header := false
			for i, cell := range record {
				cell = strings.ToLower(strings.TrimSpace(cell))
				if cell == "username" || cell == "name" {
					column = i
					header = true
				}
			}
			if header {
				continue
			}
		}

		if column >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[column])
		if name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

var deltasCmd = &cobra.Command{
	Use:   "deltas --target <YYYY-MM-DD> [--in <leaderboard.csv>] [--out <deltas.csv>]",
	Short: "Computes kill count deltas between a past date and now via Wise Old Man.",
	Run: func(cmd *cobra.Command, args []string) {
		if *deltasTarget == "" {
			serviceutil.Fatal("missing flag", fmt.Errorf("--target is required"))
		}
		targetDate, err := time.ParseInLocation("2006-01-02", *deltasTarget, time.UTC)
		if err != nil {
			serviceutil.Fatal("invalid --target date", err)
		}

		usernames, err := loadUsernames(*deltasInput)
		if err != nil {
			serviceutil.Fatal("failed to load leaderboard csv", err)
		}
		slog.Info("loaded leaderboard usernames", "count", len(usernames), "path", *deltasInput)

		service := deltas.NewService(
			wiseoldman.NewClient(wiseoldman.ClientOptions{}),
			deltas.Options{
				Metric:     *deltasMetric,
				WindowDays: *deltasWindow,
			},
		)

		results := service.Run(cmd.Context(), usernames, targetDate)

		err = deltas.WriteCSV(*deltasOutput, results)
		if err != nil {
			serviceutil.Fatal("failed to write delta csv", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Username", "Past KC", "Current KC", "Delta"})
		for _, d := range results {
			t.AppendRow(table.Row{
				d.Username,
				optionalCell(d.PastKC),
				optionalCell(d.CurrentKC),
				optionalCell(d.DeltaKC),
			})
		}
		t.Render()

		slog.Info("deltas written", "rows", len(results), "path", *deltasOutput)
	},
}

func optionalCell(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
