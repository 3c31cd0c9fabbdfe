package panelstore

import (
	"context"
	"testing"

	"hiscores-backend/lib/hiscores"
	"hiscores-backend/lib/panel"
	"hiscores-backend/lib/panelstore/db"
	"hiscores-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

func i64(v int64) *int64 {
	return &v
}

func snapshotOn(date string, kc int64) panel.Snapshot {
	return panel.Snapshot{
		PlayerName: "Zezima",
		Date:       date,
		Stats: hiscores.PlayerStats{
			Skills: map[string]hiscores.SkillEntry{
				"attack": {Rank: 34, Level: 99, Experience: 200000000},
			},
			Bosses: map[string]hiscores.BossEntry{
				"zulrah": {Rank: i64(5000), KillCount: i64(kc)},
				"obor":   {},
			},
		},
	}
}

func TestStore(t *testing.T) {
	testutil.Setup(t, "lib/panelstore")
	store := NewStore(testutil.OpenTestDB(t, db.Schema))
	ctx := context.Background()

	err := store.Append(ctx, []panel.Snapshot{snapshotOn("2026-08-28", 100)})
	require.NoError(t, err)
	err = store.Append(ctx, []panel.Snapshot{snapshotOn("2026-08-29", 120)})
	require.NoError(t, err)

	kcs, err := store.PullBoss(ctx, "Zezima", "zulrah")
	require.NoError(t, err)
	require.Len(t, kcs, 2)
	require.Equal(t, "2026-08-28", kcs[0].Date)
	require.Equal(t, i64(100), kcs[0].KillCount)
	require.Equal(t, i64(120), kcs[1].KillCount)

	skills, err := store.PullSkill(ctx, "Zezima", "attack")
	require.NoError(t, err)
	require.Len(t, skills, 2)
	require.Equal(t, int64(99), skills[0].Level)

	// placeholder entries round-trip as nils
	obor, err := store.PullBoss(ctx, "Zezima", "obor")
	require.NoError(t, err)
	require.Len(t, obor, 2)
	require.Nil(t, obor[0].Rank)
	require.Nil(t, obor[0].KillCount)
}

func TestStoreSameDayReplace(t *testing.T) {
	testutil.Setup(t, "lib/panelstore/replace")
	store := NewStore(testutil.OpenTestDB(t, db.Schema))
	ctx := context.Background()

	err := store.Append(ctx, []panel.Snapshot{snapshotOn("2026-08-29", 100)})
	require.NoError(t, err)
	err = store.Append(ctx, []panel.Snapshot{snapshotOn("2026-08-29", 105)})
	require.NoError(t, err)

	kcs, err := store.PullBoss(ctx, "Zezima", "zulrah")
	require.NoError(t, err)
	require.Len(t, kcs, 1)
	require.Equal(t, i64(105), kcs[0].KillCount)
}

func TestPullUnknownPlayer(t *testing.T) {
	testutil.Setup(t, "lib/panelstore/unknown")
	store := NewStore(testutil.OpenTestDB(t, db.Schema))

	points, err := store.PullBoss(context.Background(), "nobody", "zulrah")
	require.NoError(t, err)
	require.Empty(t, points)
}
