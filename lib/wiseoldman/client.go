// Package wiseoldman is a minimal client for the Wise Old Man v2 API,
// a third-party tracker that keeps historical hiscore snapshots. The
// deltas service uses it to look up a player's state around a past
// date, something the official hiscores cannot answer.
package wiseoldman

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hiscores-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scrapers/wiseoldman")

const DefaultBaseUrl = "https://api.wiseoldman.net/v2"

// ErrPlayerNotFound means the tracker has never seen the player.
var ErrPlayerNotFound = errors.New("player is not tracked by wise old man")

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
}

type Client struct {
	http *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(time.Second * 20)
	client.SetHeader("user-agent", "hiscores-backend/1.0 (panel harvester)")
	client.SetHeader("content-type", "application/json")

	telemetry.InstrumentResty(client, "scrapers/wiseoldman/http")

	return &Client{http: client}
}

type bossMetric struct {
	Kills *int64 `json:"kills"`
}

type playerResponse struct {
	LatestSnapshot *struct {
		CreatedAt string `json:"createdAt"`
		Data      struct {
			Bosses map[string]bossMetric `json:"bosses"`
		} `json:"data"`
	} `json:"latestSnapshot"`
}

// Current returns the metric's kill count and snapshot timestamp from
// the player's latest tracked snapshot. The kill count is nil when the
// tracker has no entry for the metric or records it as unranked.
func (c *Client) Current(ctx context.Context, username, metric string) (*int64, string, error) {
	ctx, span := tracer.Start(ctx, "Current")
	defer span.End()
	span.SetAttributes(
		attribute.String("username", username),
		attribute.String("metric", metric),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&playerResponse{}).
		SetPathParam("username", username).
		Get("/players/{username}")
	if err != nil {
		return nil, "", err
	}
	if res.StatusCode() == 404 {
		return nil, "", fmt.Errorf("%q: %w", username, ErrPlayerNotFound)
	}
	if !res.IsSuccess() {
		return nil, "", fmt.Errorf("unexpected status %d from wise old man", res.StatusCode())
	}

	player := res.Result().(*playerResponse)
	if player.LatestSnapshot == nil {
		return nil, "", nil
	}

	entry, ok := player.LatestSnapshot.Data.Bosses[metric]
	if !ok || entry.Kills == nil || *entry.Kills < 0 {
		return nil, player.LatestSnapshot.CreatedAt, nil
	}
	return entry.Kills, player.LatestSnapshot.CreatedAt, nil
}

// TimelinePoint is one sample of a metric's history.
type TimelinePoint struct {
	Value int64     `json:"value"`
	Rank  int64     `json:"rank"`
	Date  time.Time `json:"date"`
}

// Timeline returns the metric's samples between start and end.
func (c *Client) Timeline(ctx context.Context, username, metric string, start, end time.Time) ([]TimelinePoint, error) {
	ctx, span := tracer.Start(ctx, "Timeline")
	defer span.End()
	span.SetAttributes(
		attribute.String("username", username),
		attribute.String("metric", metric),
	)

	var points []TimelinePoint
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&points).
		SetPathParam("username", username).
		SetQueryParam("metric", metric).
		SetQueryParam("startDate", start.UTC().Format(time.RFC3339)).
		SetQueryParam("endDate", end.UTC().Format(time.RFC3339)).
		Get("/players/{username}/snapshots/timeline")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == 404 {
		return nil, fmt.Errorf("%q: %w", username, ErrPlayerNotFound)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d from wise old man", res.StatusCode())
	}

	return points, nil
}
