package dropstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "dropped_players.csv"))

	names, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestRecordAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dropped_players.csv")
	store := NewStore(path)

	require.NoError(t, store.Record("GhostName"))
	require.NoError(t, store.Record("OldZezima"))

	names, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{
		"GhostName": {},
		"OldZezima": {},
	}, names)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Equal(t, []string{"player_name", "GhostName", "OldZezima"}, lines)
}

func TestRecordAppendsWithoutRewritingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dropped_players.csv")

	// separate store values simulate separate runs
	require.NoError(t, NewStore(path).Record("GhostName"))
	require.NoError(t, NewStore(path).Record("GhostName"))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(contents), "player_name"))

	// duplicates across runs are fine, membership is what matters
	names, err := NewStore(path).Load()
	require.NoError(t, err)
	require.Len(t, names, 1)
}
