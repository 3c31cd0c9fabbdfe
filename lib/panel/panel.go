// Package panel turns decoded player snapshots into wide rows of the
// longitudinal panel: one row per (player, date), with three columns
// per skill and two per boss.
package panel

import (
	"context"
	"strconv"

	"hiscores-backend/lib/hiscores"
)

// Snapshot is one player's fully decoded hiscore state on one date.
type Snapshot struct {
	PlayerName string
	// ISO date (YYYY-MM-DD), UTC
	Date  string
	Stats hiscores.PlayerStats
}

// Sink receives the rows a harvest run produces. Implementations append
// only, never rewrite history.
type Sink interface {
	Append(ctx context.Context, snapshots []Snapshot) error
}

// Header returns the fixed column order for the schema:
// player_name, date, then <skill>_level/_xp/_rank per skill and
// <boss>_kc/_rank per boss.
func Header(schema hiscores.Schema) []string {
	columns := make([]string, 0, 2+len(schema.Skills)*3+len(schema.Bosses)*2)
	columns = append(columns, "player_name", "date")
	for _, skill := range schema.Skills {
		columns = append(columns, skill+"_level", skill+"_xp", skill+"_rank")
	}
	for _, boss := range schema.Bosses {
		columns = append(columns, boss+"_kc", boss+"_rank")
	}
	return columns
}

// BuildRow flattens a snapshot into Header order. Boss placeholders
// render as empty cells. Pure and total over a decoded snapshot: every
// schema entry gets its cells whether or not the payload carried it.
func BuildRow(schema hiscores.Schema, snapshot Snapshot) []string {
	row := make([]string, 0, 2+len(schema.Skills)*3+len(schema.Bosses)*2)
	row = append(row, snapshot.PlayerName, snapshot.Date)
	for _, skill := range schema.Skills {
		entry := snapshot.Stats.Skills[skill]
		row = append(row,
			strconv.FormatInt(entry.Level, 10),
			strconv.FormatInt(entry.Experience, 10),
			strconv.FormatInt(entry.Rank, 10),
		)
	}
	for _, boss := range schema.Bosses {
		entry := snapshot.Stats.Bosses[boss]
		row = append(row, formatOptional(entry.KillCount), formatOptional(entry.Rank))
	}
	return row
}

func formatOptional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
