package hiscores

import (
	"fmt"
	"strconv"
	"strings"
)

// SkillEntry holds one skill row. All three fields are always present
// when decoding succeeds; the endpoint does not use sentinels for skills
// the way it does for activities.
type SkillEntry struct {
	Rank       int64
	Level      int64
	Experience int64
}

// BossEntry holds one activity row. Rank is nil when the raw value was
// negative or absent. KillCount is clamped to 0 when the raw value was
// negative, and nil only when the row itself was missing or malformed.
type BossEntry struct {
	Rank      *int64
	KillCount *int64
}

type PlayerStats struct {
	Skills map[string]SkillEntry
	Bosses map[string]BossEntry
}

// Decode parses the raw index_lite.ws body against the schema.
//
// The first len(Skills) rows are the skill block and must be fully
// well-formed, otherwise a *DecodeError is returned. Everything after it
// is the activity section; the boss block is anchored to its tail so
// that unrecognized activities inserted in the middle are discarded
// rather than shifting every boss off by one. Short trailing data never
// fails: missing boss rows decode to nil placeholders.
func (s Schema) Decode(raw string) (PlayerStats, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.Split(strings.TrimRight(line, "\r"), ",")
	}

	if len(rows) < len(s.Skills) {
		return PlayerStats{}, &DecodeError{
			Row:    len(rows),
			Reason: fmt.Sprintf("expected %d skill rows, got %d", len(s.Skills), len(rows)),
		}
	}

	stats := PlayerStats{
		Skills: make(map[string]SkillEntry, len(s.Skills)),
		Bosses: make(map[string]BossEntry, len(s.Bosses)),
	}

	for i, skill := range s.Skills {
		row := rows[i]
		if len(row) != 3 {
			return PlayerStats{}, &DecodeError{
				Row:    i,
				Reason: fmt.Sprintf("skill %q has %d fields, want 3", skill, len(row)),
			}
		}
		entry := SkillEntry{}
		for j, dst := range []*int64{&entry.Rank, &entry.Level, &entry.Experience} {
			v, err := strconv.ParseInt(strings.TrimSpace(row[j]), 10, 64)
			if err != nil {
				return PlayerStats{}, &DecodeError{
					Row:    i,
					Reason: fmt.Sprintf("skill %q field %d is not an integer: %q", skill, j, row[j]),
				}
			}
			*dst = v
		}
		stats.Skills[skill] = entry
	}

	// the activity section grows over time; the bosses we track are its
	// last len(Bosses) rows. if the section is shorter than that we take
	// nothing rather than guessing at alignment.
	activityRows := rows[len(s.Skills):]
	var bossRows [][]string
	if len(activityRows) >= len(s.Bosses) {
		bossRows = activityRows[len(activityRows)-len(s.Bosses):]
	}

	for i, boss := range s.Bosses {
		if i >= len(bossRows) {
			stats.Bosses[boss] = BossEntry{}
			continue
		}
		stats.Bosses[boss] = decodeBossRow(bossRows[i])
	}

	return stats, nil
}

func decodeBossRow(row []string) BossEntry {
	if len(row) < 2 {
		return BossEntry{}
	}

	// rows carry either 2 or 3 fields, the first two are rank and
	// kill count. each parses independently so a corrupt rank does not
	// discard a valid kill count.
	rank := parseOptionalInt(row[0])
	kc := parseOptionalInt(row[1])

	if rank != nil && *rank < 0 {
		rank = nil
	}
	if kc != nil && *kc < 0 {
		zero := int64(0)
		kc = &zero
	}

	return BossEntry{Rank: rank, KillCount: kc}
}

func parseOptionalInt(s string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
