package playerlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players_list.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadHeadered(t *testing.T) {
	path := writeFile(t, "player_name,source_skill\nZezima,overall\nlynx titan,slayer\n")

	names, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Zezima", "lynx titan"}, names)
}

func TestLoadHeaderless(t *testing.T) {
	path := writeFile(t, "Zezima\nlynx titan\n\n")

	names, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Zezima", "lynx titan"}, names)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	set, err := LoadSet(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestAppendCreatesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players_list.csv")

	err := Append(path, []Entry{{PlayerName: "Zezima", SourceSkill: "overall"}})
	require.NoError(t, err)
	err = Append(path, []Entry{{PlayerName: "lynx titan", SourceSkill: "slayer"}})
	require.NoError(t, err)

	names, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Zezima", "lynx titan"}, names)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "player_name,source_skill\nZezima,overall\nlynx titan,slayer\n", string(contents))
}
