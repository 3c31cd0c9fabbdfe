package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"hiscores-backend/lib/configutil"
	"hiscores-backend/lib/hiscores"
	"hiscores-backend/lib/playerlist"
	"hiscores-backend/lib/serviceutil"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var lookupAllBosses *bool

func init() {
	lookupAllBosses = lookupCmd.Flags().Bool("all-bosses", false, "Include bosses without a kill count.")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <player> [--all-bosses]",
	Short: "Fetches and prints a single player's current hiscore state.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		player := args[0]
		schema := hiscores.DefaultSchema()
		client := hiscores.NewClient(schema, hiscores.ClientOptions{})

		stats, err := client.FetchStats(cmd.Context(), player)
		if errors.Is(err, hiscores.ErrNotOnHiscores) {
			fmt.Printf("%q is not on the hiscores.\n", player)
			suggestNames(player)
			os.Exit(1)
		}
		if err != nil {
			serviceutil.Fatal("failed to fetch player", err)
		}

		skills := table.NewWriter()
		skills.SetStyle(table.StyleRounded)
		skills.SetOutputMirror(os.Stdout)
		skills.AppendHeader(table.Row{"Skill", "Level", "XP", "Rank"})
		for _, skill := range schema.Skills {
			entry := stats.Skills[skill]
			skills.AppendRow(table.Row{skill, entry.Level, entry.Experience, entry.Rank})
		}
		skills.Render()

		bosses := table.NewWriter()
		bosses.SetStyle(table.StyleRounded)
		bosses.SetOutputMirror(os.Stdout)
		bosses.AppendHeader(table.Row{"Boss", "KC", "Rank"})
		for _, boss := range schema.Bosses {
			entry := stats.Bosses[boss]
			if !*lookupAllBosses && (entry.KillCount == nil || *entry.KillCount == 0) {
				continue
			}
			bosses.AppendRow(table.Row{boss, optionalCell(entry.KillCount), optionalCell(entry.Rank)})
		}
		bosses.Render()
	},
}

// suggestNames prints close matches from the local player list, for the
// common case of a typo or a slightly changed display name.
func suggestNames(player string) {
	cfg, err := configutil.ReadConfig[harvestConfig]("config.json5")
	if err != nil {
		return
	}
	if cfg.PlayersList == "" {
		cfg.PlayersList = "data/players_list.csv"
	}
	names, err := playerlist.Load(cfg.PlayersList)
	if err != nil {
		return
	}

	type suggestion struct {
		name        string
		correlation float64
	}
	var suggestions []suggestion
	for _, name := range names {
		correlation := matchr.JaroWinkler(player, name, false)
		if correlation >= 0.85 {
			suggestions = append(suggestions, suggestion{name: name, correlation: correlation})
		}
	}
	if len(suggestions) == 0 {
		return
	}

	sort.Slice(suggestions, func(i, j int) bool {
		// sort descending
		return suggestions[i].correlation > suggestions[j].correlation
	})

	fmt.Println("did you mean:")
	for i, s := range suggestions {
		if i >= 5 {
			break
		}
		fmt.Printf("  %s (%.2f)\n", s.name, s.correlation)
	}
}
