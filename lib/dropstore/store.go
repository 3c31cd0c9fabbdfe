// Package dropstore persists the set of players confirmed gone from the
// hiscores, so later harvest runs stop querying them. The file is a
// single-column CSV, append-only; a name is written the moment the 404
// is observed so a crash mid-run loses nothing already detected.
//
// Names are never removed. A player who climbs back onto the hiscores
// after being recorded here stays excluded; that is a known limitation.
package dropstore

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

const header = "player_name"

type Store struct {
	path string
}

func NewStore(path string) Store {
	return Store{path: path}
}

// Load reads every recorded name. A missing file just means nobody has
// dropped yet and yields an empty set.
func (s Store) Load() (map[string]struct{}, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	names := map[string]struct{}{}
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
		if name == "" || name == header {
			continue
		}
		names[name] = struct{}{}
	}

	return names, nil
}

// Record durably appends a single name, writing the header first if the
// file does not exist yet. Recording the same name twice is harmless,
// Load only cares about membership.
func (s Store) Record(name string) error {
	info, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if writeHeader {
		err = writer.Write([]string{header})
		if err != nil {
			return err
		}
	}
	err = writer.Write([]string{name})
	if err != nil {
		return err
	}
	writer.Flush()
	if writer.Error() != nil {
		return writer.Error()
	}

	// the next candidate must not be considered until this name is on disk
	return f.Sync()
}
