package panel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hiscores-backend/lib/hiscores"

	"github.com/stretchr/testify/require"
)

func testSchema() hiscores.Schema {
	return hiscores.Schema{
		Skills: []string{"overall", "attack"},
		Bosses: []string{"obor", "zulrah"},
	}
}

func i64(v int64) *int64 {
	return &v
}

func testSnapshot() Snapshot {
	return Snapshot{
		PlayerName: "Zezima",
		Date:       "2026-08-29",
		Stats: hiscores.PlayerStats{
			Skills: map[string]hiscores.SkillEntry{
				"overall": {Rank: 12, Level: 2277, Experience: 4600000000},
				"attack":  {Rank: 34, Level: 99, Experience: 200000000},
			},
			Bosses: map[string]hiscores.BossEntry{
				"obor":   {Rank: nil, KillCount: i64(0)},
				"zulrah": {Rank: i64(5000), KillCount: i64(1234)},
			},
		},
	}
}

func TestHeader(t *testing.T) {
	require.Equal(t, []string{
		"player_name", "date",
		"overall_level", "overall_xp", "overall_rank",
		"attack_level", "attack_xp", "attack_rank",
		"obor_kc", "obor_rank",
		"zulrah_kc", "zulrah_rank",
	}, Header(testSchema()))
}

func TestBuildRow(t *testing.T) {
	row := BuildRow(testSchema(), testSnapshot())
	require.Equal(t, []string{
		"Zezima", "2026-08-29",
		"2277", "4600000000", "12",
		"99", "200000000", "34",
		"0", "",
		"1234", "5000",
	}, row)
	require.Len(t, row, len(Header(testSchema())))
}

func TestBuildRowPlaceholders(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Stats.Bosses["obor"] = hiscores.BossEntry{}

	row := BuildRow(testSchema(), snapshot)
	// kc and rank both render empty for a structurally missing row
	require.Equal(t, "", row[8])
	require.Equal(t, "", row[9])
}

func TestCSVSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players_stats.csv")
	sink := NewCSVSink(testSchema(), path)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, []Snapshot{testSnapshot()}))

	second := testSnapshot()
	second.Date = "2026-08-30"
	require.NoError(t, sink.Append(ctx, []Snapshot{second}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, strings.Join(Header(testSchema()), ","), lines[0])
	require.Contains(t, lines[1], "2026-08-29")
	require.Contains(t, lines[2], "2026-08-30")
}

func TestCSVSinkEmptyAppendDoesNotCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players_stats.csv")
	sink := NewCSVSink(testSchema(), path)

	require.NoError(t, sink.Append(context.Background(), nil))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
