package sampler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"hiscores-backend/lib/playerlist"
	"hiscores-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const pageTemplate = `<html><body>
<table>
<tr><th>Rank</th><th>Name</th><th>Level</th></tr>
<tr><td>1</td><td><a href="/player1">%s</a></td><td>99</td></tr>
<tr><td>2</td><td><a href="/player2">%s</a></td><td>98</td></tr>
</table>
</body></html>`

func newTestService(t *testing.T, handler http.Handler, tables []SkillTable) *Service {
	cleanup := telemetry.SetupForTesting(t, "test:services/sampler")
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewService(Options{
		BaseUrl:        server.URL,
		Tables:         tables,
		MaxPage:        1,
		TargetPerSkill: 2,
		MaxAttempts:    3,
		Sleep:          func(time.Duration) {},
	})
}

func TestRunCollectsNamesPerSkill(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := r.URL.Query().Get("table")
		fmt.Fprintf(w, pageTemplate, "Player A "+table, "Player B "+table)
	}), []SkillTable{
		{Skill: "overall", Table: 0},
		{Skill: "attack", Table: 1},
	})

	listPath := filepath.Join(t.TempDir(), "players_list.csv")
	added, err := service.Run(context.Background(), listPath)
	require.NoError(t, err)
	require.Equal(t, 4, added)

	names, err := playerlist.Load(listPath)
	require.NoError(t, err)
	require.Equal(t, []string{
		"Player A 0", "Player B 0",
		"Player A 1", "Player B 1",
	}, names)
}

func TestRunSkipsExistingNames(t *testing.T) {
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, pageTemplate, "Zezima", "lynx titan")
	}), []SkillTable{{Skill: "overall", Table: 0}})

	listPath := filepath.Join(t.TempDir(), "players_list.csv")
	err := playerlist.Append(listPath, []playerlist.Entry{
		{PlayerName: "Zezima", SourceSkill: "overall"},
	})
	require.NoError(t, err)

	added, err := service.Run(context.Background(), listPath)
	require.NoError(t, err)
	require.Equal(t, 1, added)

	names, err := playerlist.Load(listPath)
	require.NoError(t, err)
	require.Equal(t, []string{"Zezima", "lynx titan"}, names)
}

func TestRunToleratesFailingPages(t *testing.T) {
	attempts := 0
	service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, pageTemplate, "Zezima", "lynx titan")
	}), []SkillTable{{Skill: "overall", Table: 0}})

	listPath := filepath.Join(t.TempDir(), "players_list.csv")
	added, err := service.Run(context.Background(), listPath)
	require.NoError(t, err)
	require.Equal(t, 2, added)
}

func TestDefaultSkillTables(t *testing.T) {
	tables := DefaultSkillTables()
	require.Len(t, tables, 25)
	require.Equal(t, SkillTable{Skill: "overall", Table: 0}, tables[0])
	require.Equal(t, SkillTable{Skill: "sailing", Table: 24}, tables[24])
}
