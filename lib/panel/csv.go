package panel

import (
	"context"
	"encoding/csv"
	"os"

	"hiscores-backend/lib/hiscores"
)

// CSVSink appends rows to the panel CSV, writing the header only when
// the file is created. Prior dates are never rewritten; the file is a
// growing history.
type CSVSink struct {
	schema hiscores.Schema
	path   string
}

func NewCSVSink(schema hiscores.Schema, path string) CSVSink {
	return CSVSink{schema: schema, path: path}
}

func (s CSVSink) Append(ctx context.Context, snapshots []Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	info, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if writeHeader {
		err = writer.Write(Header(s.schema))
		if err != nil {
			return err
		}
	}
	for _, snapshot := range snapshots {
		err = writer.Write(BuildRow(s.schema, snapshot))
		if err != nil {
			return err
		}
	}
	writer.Flush()
	if writer.Error() != nil {
		return writer.Error()
	}
	return f.Sync()
}
