package commands

import (
	"log/slog"

	"hiscores-backend/lib/configutil"
	"hiscores-backend/lib/serviceutil"
	"hiscores-backend/services/sampler"

	"github.com/spf13/cobra"
)

type sampleConfig struct {
	PlayersList    string `json:"players_list"`
	TargetPerSkill int    `json:"target_per_skill"`
	MaxPage        int    `json:"max_page"`
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Samples random hiscore pages and grows the player list.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[sampleConfig]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.PlayersList == "" {
			cfg.PlayersList = "data/players_list.csv"
		}

		service := sampler.NewService(sampler.Options{
			TargetPerSkill: cfg.TargetPerSkill,
			MaxPage:        cfg.MaxPage,
		})

		added, err := service.Run(cmd.Context(), cfg.PlayersList)
		if err != nil {
			serviceutil.Fatal("sampling failed", err)
		}
		slog.Info("sampling finished", "added", added, "path", cfg.PlayersList)
	},
}
