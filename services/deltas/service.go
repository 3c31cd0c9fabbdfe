// Package deltas computes how much a boss kill count changed between a
// past target date and now, using Wise Old Man's historical snapshots.
// It runs against the usernames of a scraped boss leaderboard and is
// independent of the snapshot pipeline's own panel.
package deltas

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"strconv"
	"time"

	"hiscores-backend/lib/wiseoldman"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/deltas")

// Tracker is the slice of the Wise Old Man client the service needs.
type Tracker interface {
	Current(ctx context.Context, username, metric string) (*int64, string, error)
	Timeline(ctx context.Context, username, metric string, start, end time.Time) ([]wiseoldman.TimelinePoint, error)
}

type Options struct {
	// defaults to "vorkath"
	Metric string
	// snapshot search window around the target date, defaults to 3 days
	WindowDays int
	// pause between API calls; WOM allows 20 requests a minute, so the
	// default is a conservative 3.2s
	RateDelay time.Duration
	// defaults to time.Sleep, injectable for tests
	Sleep func(time.Duration)
}

type Service struct {
	tracker Tracker
	opts    Options
}

func NewService(tracker Tracker, opts Options) Service {
	if opts.Metric == "" {
		opts.Metric = "vorkath"
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = 3
	}
	if opts.RateDelay <= 0 {
		opts.RateDelay = 3200 * time.Millisecond
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return Service{tracker: tracker, opts: opts}
}

// Delta is one player's result. Nil fields mean the tracker had no
// usable data on that side; DeltaKC is set only when both sides are.
type Delta struct {
	Username    string
	PastKC      *int64
	PastDate    string
	CurrentKC   *int64
	CurrentDate string
	DeltaKC     *int64
}

// Run resolves a delta for every username. Per-player failures are
// logged and yield nil fields; the batch always completes.
func (s Service) Run(ctx context.Context, usernames []string, targetDate time.Time) []Delta {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("metric", s.opts.Metric),
		attribute.Int("usernames", len(usernames)),
	)

	deltas := make([]Delta, 0, len(usernames))
	for _, username := range usernames {
		delta := Delta{Username: username}

		delta.PastKC, delta.PastDate = s.pastKC(ctx, username, targetDate)
		s.opts.Sleep(s.opts.RateDelay)

		delta.CurrentKC, delta.CurrentDate = s.currentKC(ctx, username)
		s.opts.Sleep(s.opts.RateDelay)

		if delta.PastKC != nil && delta.CurrentKC != nil {
			d := *delta.CurrentKC - *delta.PastKC
			delta.DeltaKC = &d
		}
		deltas = append(deltas, delta)
	}

	return deltas
}

func (s Service) currentKC(ctx context.Context, username string) (*int64, string) {
	kc, date, err := s.tracker.Current(ctx, username, s.opts.Metric)
	if err != nil {
		slog.WarnContext(
			ctx, "failed to resolve current kill count",
			"username", username,
			"err", err,
		)
		return nil, ""
	}
	return kc, date
}

// pastKC approximates the kill count on the target date from the
// timeline sample closest to it within the window.
func (s Service) pastKC(ctx context.Context, username string, targetDate time.Time) (*int64, string) {
	start := targetDate.AddDate(0, 0, -s.opts.WindowDays)
	end := targetDate.AddDate(0, 0, s.opts.WindowDays)

	points, err := s.tracker.Timeline(ctx, username, s.opts.Metric, start, end)
	if err != nil {
		slog.WarnContext(
			ctx, "failed to resolve timeline",
			"username", username,
			"err", err,
		)
		return nil, ""
	}
	if len(points) == 0 {
		slog.InfoContext(
			ctx, "no timeline data inside window",
			"username", username,
			"target", targetDate.Format("2006-01-02"),
		)
		return nil, ""
	}

	best := points[0]
	bestDistance := absDuration(best.Date.Sub(targetDate))
	for _, p := range points[1:] {
		distance := absDuration(p.Date.Sub(targetDate))
		if distance < bestDistance {
			best = p
			bestDistance = distance
		}
	}

	if best.Value < 0 {
		return nil, best.Date.Format(time.RFC3339)
	}
	value := best.Value
	return &value, best.Date.Format(time.RFC3339)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// WriteCSV saves the deltas next to the rest of the data exports.
func WriteCSV(path string, deltas []Delta) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write([]string{
		"username", "past_kc", "past_date", "current_kc", "current_date", "delta_kc",
	})
	if err != nil {
		return err
	}
	for _, d := range deltas {
		err = writer.Write([]string{
			d.Username,
			optionalString(d.PastKC),
			d.PastDate,
			optionalString(d.CurrentKC),
			d.CurrentDate,
			optionalString(d.DeltaKC),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func optionalString(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
