package hiscores

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hiscores-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/hiscores")

const DefaultBaseUrl = "https://secure.runescape.com/m=hiscore_oldschool"

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// total attempts before giving up on a transient failure, defaults to 5
	MaxRetries int
	// backoff before attempt k+1 is BaseDelay*k, defaults to 3s
	BaseDelay time.Duration
	// defaults to time.Sleep, injectable so tests don't wait out backoffs
	Sleep func(time.Duration)
}

type Client struct {
	http       *resty.Client
	schema     Schema
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
}

func NewClient(schema Schema, opts ClientOptions) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second * 3
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(time.Second * 10)
	client.SetHeader("user-agent", "hiscores-backend/1.0 (panel harvester)")

	telemetry.InstrumentResty(client, "scrapers/hiscores/http")

	return &Client{
		http:       client,
		schema:     schema,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		sleep:      opts.Sleep,
	}
}

// Fetch returns the raw positional payload for a player.
//
// A 404 means the player is gone from the hiscores for good, so it
// returns ErrNotOnHiscores immediately without retrying. Every other
// failure is assumed transient and retried with a linearly growing
// delay; once attempts are exhausted the last error is returned inside
// a *TransportError.
func (c *Client) Fetch(ctx context.Context, player string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("player", player))

	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		res, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("player", player).
			Get("/index_lite.ws")

		if err == nil {
			if res.StatusCode() == 404 {
				span.SetStatus(codes.Error, "not on hiscores")
				return "", fmt.Errorf("player %q: %w", player, ErrNotOnHiscores)
			}
			if res.IsSuccess() {
				return res.String(), nil
			}
			err = fmt.Errorf("unexpected status %d from hiscores", res.StatusCode())
		}
		lastErr = err

		if attempt == c.maxRetries {
			break
		}

		delay := c.baseDelay * time.Duration(attempt)
		slog.WarnContext(
			ctx, "hiscore fetch failed, retrying",
			"player", player,
			"attempt", attempt,
			"max_retries", c.maxRetries,
			"delay", delay,
			"err", err,
		)
		c.sleep(delay)
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "retries exhausted")
	return "", &TransportError{Attempts: c.maxRetries, Err: lastErr}
}

// FetchStats fetches and decodes a player's snapshot in one call.
func (c *Client) FetchStats(ctx context.Context, player string) (PlayerStats, error) {
	raw, err := c.Fetch(ctx, player)
	if err != nil {
		return PlayerStats{}, err
	}
	return c.schema.Decode(raw)
}
