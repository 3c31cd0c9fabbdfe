package commands

import (
	"context"
	"log/slog"
	"time"

	"hiscores-backend/lib/configutil"
	"hiscores-backend/lib/dropstore"
	"hiscores-backend/lib/hiscores"
	"hiscores-backend/lib/panel"
	"hiscores-backend/lib/panelstore"
	panelstoredb "hiscores-backend/lib/panelstore/db"
	"hiscores-backend/lib/playerlist"
	"hiscores-backend/lib/serviceutil"
	"hiscores-backend/lib/sqliteutil"
	"hiscores-backend/services/harvester"

	"github.com/spf13/cobra"
)

type harvestConfig struct {
	PlayersList    string `json:"players_list"`
	DroppedPlayers string `json:"dropped_players"`
	PanelCsv       string `json:"panel_csv"`
	// optional sqlite mirror of the panel, skipped when empty
	PanelDb string `json:"panel_db"`
}

var harvestDate *string

func init() {
	harvestDate = harvestCmd.Flags().String("date", "", "Snapshot date (YYYY-MM-DD), defaults to today in UTC.")
	rootCmd.AddCommand(harvestCmd)
}

type multiSink []panel.Sink

func (m multiSink) Append(ctx context.Context, snapshots []panel.Snapshot) error {
	for _, sink := range m {
		err := sink.Append(ctx, snapshots)
		if err != nil {
			return err
		}
	}
	return nil
}

var harvestCmd = &cobra.Command{
	Use:   "harvest [--date <YYYY-MM-DD>]",
	Short: "Snapshots every player on the list and appends the rows to the panel.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[harvestConfig]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.PlayersList == "" {
			cfg.PlayersList = "data/players_list.csv"
		}
		if cfg.DroppedPlayers == "" {
			cfg.DroppedPlayers = "data/dropped_players.csv"
		}
		if cfg.PanelCsv == "" {
			cfg.PanelCsv = "data/players_stats.csv"
		}

		candidates, err := playerlist.Load(cfg.PlayersList)
		if err != nil {
			serviceutil.Fatal("failed to load player list", err)
		}
		slog.Info("loaded player list", "players", len(candidates), "path", cfg.PlayersList)

		schema := hiscores.DefaultSchema()
		sinks := multiSink{panel.NewCSVSink(schema, cfg.PanelCsv)}
		if cfg.PanelDb != "" {
			db, err := sqliteutil.OpenDB(panelstoredb.Schema, cfg.PanelDb)
			if err != nil {
				serviceutil.Fatal("failed to open panel database", err)
			}
			defer db.Close()
			sinks = append(sinks, panelstore.NewStore(db))
		}

		service := harvester.NewService(
			schema,
			hiscores.NewClient(schema, hiscores.ClientOptions{}),
			dropstore.NewStore(cfg.DroppedPlayers),
			sinks,
		)

		t1 := time.Now()
		report, err := service.Run(cmd.Context(), candidates, *harvestDate)
		if err != nil {
			serviceutil.Fatal("harvest run failed", err)
		}

		slog.Info(
			"harvest finished",
			"date", report.Date,
			"succeeded", len(report.Succeeded),
			"dropped", len(report.Dropped),
			"drop_record_failures", len(report.DropRecordFailures),
			"transient_failures", len(report.TransientFailures),
			"decode_failures", len(report.DecodeFailures),
			"skipped_known_dropped", report.SkippedKnown,
			"seconds", time.Since(t1).Seconds(),
		)
	},
}
