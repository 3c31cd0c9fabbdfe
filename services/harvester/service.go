// Package harvester runs the snapshot pipeline: filter the candidate
// list against the dropped-player store, fetch and decode each player
// sequentially, record permanent absences the moment they are seen, and
// hand the surviving rows to the panel sink.
package harvester

import (
	"context"
	"errors"
	"log/slog"

	"hiscores-backend/lib/hiscores"
	"hiscores-backend/lib/panel"
	"hiscores-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/harvester")

// Fetcher is the transport half of the pipeline. *hiscores.Client
// satisfies it; tests substitute a fake.
type Fetcher interface {
	Fetch(ctx context.Context, player string) (string, error)
}

// DropStore is the persisted set of players known to be gone.
type DropStore interface {
	Load() (map[string]struct{}, error)
	Record(name string) error
}

type Service struct {
	schema  hiscores.Schema
	fetcher Fetcher
	drops   DropStore
	sink    panel.Sink
}

func NewService(schema hiscores.Schema, fetcher Fetcher, drops DropStore, sink panel.Sink) Service {
	return Service{
		schema:  schema,
		fetcher: fetcher,
		drops:   drops,
		sink:    sink,
	}
}

// Report summarizes one run. Every candidate lands in exactly one
// bucket; no failure aborts the remaining candidates.
type Report struct {
	Date string
	// skipped up front because a previous run recorded them
	SkippedKnown int
	Succeeded    []string
	// newly recorded as permanently absent this run
	Dropped []string
	// absent from the hiscores but the ledger write failed; these
	// names will be fetched again next run
	DropRecordFailures []string
	// transport retries exhausted, candidate again next run
	TransientFailures []string
	// fetched fine but the skill block was corrupt
	DecodeFailures []string
}

// Run snapshots every candidate not already known to be dropped and
// appends the resulting rows to the sink. date may be empty, in which
// case today's UTC date is used.
func (s Service) Run(ctx context.Context, candidates []string, date string) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if date == "" {
		date = timezone.Today()
	}
	report := Report{Date: date}

	known, err := s.drops.Load()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	var snapshots []panel.Snapshot

	for _, player := range candidates {
		if _, gone := known[player]; gone {
			report.SkippedKnown++
			continue
		}

		stats, err := s.snapshotPlayer(ctx, player)
		switch {
		case err == nil:
			report.Succeeded = append(report.Succeeded, player)
			snapshots = append(snapshots, panel.Snapshot{
				PlayerName: player,
				Date:       date,
				Stats:      stats,
			})

		case errors.Is(err, hiscores.ErrNotOnHiscores):
			slog.InfoContext(
				ctx, "player no longer on hiscores, marking as dropped",
				"player", player,
			)
			recordErr := s.drops.Record(player)
			if recordErr != nil {
				// the run goes on, but the ledger is now behind:
				// report it separately so the caller knows this name
				// was not durably recorded
				slog.ErrorContext(
					ctx, "failed to record dropped player",
					"player", player,
					"err", recordErr,
				)
				report.DropRecordFailures = append(report.DropRecordFailures, player)
				continue
			}
			report.Dropped = append(report.Dropped, player)

		case isDecodeError(err):
			slog.ErrorContext(
				ctx, "hiscore payload undecodable, skipping player this run",
				"player", player,
				"err", err,
			)
			report.DecodeFailures = append(report.DecodeFailures, player)

		default:
			slog.ErrorContext(
				ctx, "fetch failed after retries, skipping player this run",
				"player", player,
				"err", err,
			)
			report.TransientFailures = append(report.TransientFailures, player)
		}
	}

	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("succeeded", len(report.Succeeded)),
		attribute.Int("dropped", len(report.Dropped)),
	)

	err = s.sink.Append(ctx, snapshots)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	return report, nil
}

func (s Service) snapshotPlayer(ctx context.Context, player string) (hiscores.PlayerStats, error) {
	ctx, span := tracer.Start(ctx, "snapshotPlayer")
	defer span.End()
	span.SetAttributes(attribute.String("player", player))

	raw, err := s.fetcher.Fetch(ctx, player)
	if err != nil {
		span.RecordError(err)
		return hiscores.PlayerStats{}, err
	}
	stats, err := s.schema.Decode(raw)
	if err != nil {
		span.RecordError(err)
		return hiscores.PlayerStats{}, err
	}
	return stats, nil
}

func isDecodeError(err error) bool {
	var decodeErr *hiscores.DecodeError
	return errors.As(err, &decodeErr)
}
