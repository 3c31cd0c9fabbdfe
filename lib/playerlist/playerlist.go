// Package playerlist reads and extends the candidate-name CSV shared by
// the sampler (which appends discovered names) and the harvester (which
// snapshots every name on the list).
package playerlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load returns the player names from the list in file order. Both the
// headered format (`player_name,source_skill`) and a plain headerless
// single-column file are accepted; blanks are dropped.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("player list: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var names []string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 {
			continue
		}

		name := strings.TrimSpace(record[0])
		if first {
			first = false
			if name == "player_name" {
				continue
			}
		}
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// LoadSet is Load but as a membership set, for dedupe.
func LoadSet(path string) (map[string]struct{}, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	names, err := Load(path)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}

// Entry is one sampled name and the skill table it came from.
type Entry struct {
	PlayerName  string
	SourceSkill string
}

// Append adds sampled entries to the list, creating it with a header if
// it does not exist yet.
func Append(path string, entries []Entry) error {
	info, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if writeHeader {
		err = writer.Write([]string{"player_name", "source_skill"})
		if err != nil {
			return err
		}
	}
	for _, entry := range entries {
		err = writer.Write([]string{entry.PlayerName, entry.SourceSkill})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
