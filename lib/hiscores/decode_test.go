package hiscores

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		Skills: []string{"overall", "attack", "cooking"},
		Bosses: []string{"bryophyta", "obor", "zulrah"},
	}
}

func i64(v int64) *int64 {
	return &v
}

func TestDecode(t *testing.T) {
	schema := testSchema()

	raw := strings.Join([]string{
		"100,2000,123456789",
		"200,99,13034431",
		"300,85,3258594",
		// unrecognized leading activities, discarded by tail anchoring
		"1,1000",
		"2,2000",
		"5000,12",
		"-1,-1",
		"7000,150,3",
	}, "\n")

	stats, err := schema.Decode(raw)
	require.NoError(t, err)

	require.Equal(t, SkillEntry{Rank: 100, Level: 2000, Experience: 123456789}, stats.Skills["overall"])
	require.Equal(t, SkillEntry{Rank: 200, Level: 99, Experience: 13034431}, stats.Skills["attack"])
	require.Equal(t, SkillEntry{Rank: 300, Level: 85, Experience: 3258594}, stats.Skills["cooking"])

	diff := cmp.Diff(map[string]BossEntry{
		"bryophyta": {Rank: i64(5000), KillCount: i64(12)},
		"obor":      {Rank: nil, KillCount: i64(0)},
		"zulrah":    {Rank: i64(7000), KillCount: i64(150)},
	}, stats.Bosses)
	require.Empty(t, diff)
}

func TestDecodeNegativeSentinels(t *testing.T) {
	schema := testSchema()

	raw := strings.Join([]string{
		"1,1,1",
		"1,1,1",
		"1,1,1",
		"-1,-1",
		"-1,5",
		"10,-1",
	}, "\n")

	stats, err := schema.Decode(raw)
	require.NoError(t, err)

	require.Nil(t, stats.Bosses["bryophyta"].Rank)
	require.Equal(t, i64(0), stats.Bosses["bryophyta"].KillCount)

	require.Nil(t, stats.Bosses["obor"].Rank)
	require.Equal(t, i64(5), stats.Bosses["obor"].KillCount)

	require.Equal(t, i64(10), stats.Bosses["zulrah"].Rank)
	require.Equal(t, i64(0), stats.Bosses["zulrah"].KillCount)
}

func TestDecodeShortActivitySection(t *testing.T) {
	schema := testSchema()

	// only two activity rows for three bosses: alignment would be a
	// guess, so every boss becomes a placeholder
	raw := strings.Join([]string{
		"1,1,1",
		"1,1,1",
		"1,1,1",
		"100,5",
		"200,6",
	}, "\n")

	stats, err := schema.Decode(raw)
	require.NoError(t, err)

	for _, boss := range schema.Bosses {
		entry, ok := stats.Bosses[boss]
		require.True(t, ok, boss)
		require.Nil(t, entry.Rank, boss)
		require.Nil(t, entry.KillCount, boss)
	}
}

func TestDecodeMalformedBossRows(t *testing.T) {
	schema := testSchema()

	raw := strings.Join([]string{
		"1,1,1",
		"1,1,1",
		"1,1,1",
		"12",
		"oops,34",
		"56,oops",
	}, "\n")

	stats, err := schema.Decode(raw)
	require.NoError(t, err)

	// single-field row is structurally missing
	require.Equal(t, BossEntry{}, stats.Bosses["bryophyta"])

	// a bad field never invalidates its sibling
	require.Nil(t, stats.Bosses["obor"].Rank)
	require.Equal(t, i64(34), stats.Bosses["obor"].KillCount)
	require.Equal(t, i64(56), stats.Bosses["zulrah"].Rank)
	require.Nil(t, stats.Bosses["zulrah"].KillCount)
}

func TestDecodeInvalidSkillBlock(t *testing.T) {
	schema := testSchema()

	testCases := []struct {
		name string
		raw  string
	}{
		{
			name: "too few rows",
			raw:  "1,1,1\n1,1,1",
		},
		{
			name: "wrong field count",
			raw:  "1,1,1\n1,1\n1,1,1",
		},
		{
			name: "non numeric field",
			raw:  "1,1,1\n1,abc,1\n1,1,1",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := schema.Decode(test.raw)

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			require.False(t, errors.Is(err, ErrNotOnHiscores))
		})
	}
}

func TestDecodeCarriageReturns(t *testing.T) {
	schema := testSchema()

	raw := "1,2,3\r\n4,5,6\r\n7,8,9\r\n10,11\r\n12,13\r\n14,15\r\n"
	stats, err := schema.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, SkillEntry{Rank: 4, Level: 5, Experience: 6}, stats.Skills["attack"])
	require.Equal(t, i64(15), stats.Bosses["zulrah"].KillCount)
}

func TestDefaultSchema(t *testing.T) {
	schema := DefaultSchema()
	require.Len(t, schema.Skills, 25)
	require.Len(t, schema.Bosses, 66)

	var lines []string
	for i := range schema.Skills {
		lines = append(lines, fmt.Sprintf("%d,%d,%d", i+1, 99, 13034431))
	}
	for i := range schema.Bosses {
		lines = append(lines, fmt.Sprintf("%d,%d", i+1, i))
	}

	stats, err := schema.Decode(strings.Join(lines, "\n"))
	require.NoError(t, err)
	require.Len(t, stats.Skills, len(schema.Skills))
	require.Len(t, stats.Bosses, len(schema.Bosses))
	require.Equal(t, i64(65), stats.Bosses["zulrah"].KillCount)
}
