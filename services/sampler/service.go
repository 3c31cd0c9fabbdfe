// Package sampler grows the candidate list by sampling random pages of
// the hiscore website's per-skill tables and collecting the player
// names found there. It is the discovery half of the pipeline; the
// harvester consumes the list it writes.
package sampler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"hiscores-backend/lib/htmlutil"
	"hiscores-backend/lib/playerlist"
	"hiscores-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/sampler")

const DefaultBaseUrl = "https://secure.runescape.com/m=hiscore_oldschool/overall"

// SkillTable maps a skill to its table index on the hiscore website.
type SkillTable struct {
	Skill string
	Table int
}

// DefaultSkillTables lists every skill table in site order.
func DefaultSkillTables() []SkillTable {
	skills := []string{
		"overall", "attack", "defence", "strength", "hitpoints", "ranged",
		"prayer", "magic", "cooking", "woodcutting", "fletching", "fishing",
		"firemaking", "crafting", "smithing", "mining", "herblore", "agility",
		"thieving", "slayer", "farming", "runecraft", "hunter", "construction",
		"sailing",
	}
	tables := make([]SkillTable, len(skills))
	for i, skill := range skills {
		tables[i] = SkillTable{Skill: skill, Table: i}
	}
	return tables
}

type Options struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to DefaultSkillTables()
	Tables []SkillTable
	// random page range upper bound, defaults to 20000
	MaxPage int
	// names to collect per skill, defaults to 2
	TargetPerSkill int
	// page fetches per skill before giving up, defaults to 100
	MaxAttempts int
	// defaults to time.Sleep, injectable for tests
	Sleep func(time.Duration)
}

type Service struct {
	http *resty.Client
	opts Options
}

func NewService(opts Options) *Service {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if len(opts.Tables) == 0 {
		opts.Tables = DefaultSkillTables()
	}
	if opts.MaxPage <= 0 {
		opts.MaxPage = 20000
	}
	if opts.TargetPerSkill <= 0 {
		opts.TargetPerSkill = 2
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 100
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(time.Second * 10)
	client.SetHeader("user-agent", "hiscores-backend/1.0 (panel harvester)")
	// the hiscore website sits behind bot protection that plain Go
	// clients trip; the lite endpoint used by the harvester does not
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "services/sampler/http")

	return &Service{http: client, opts: opts}
}

// Run samples names for every configured skill table and appends the
// previously unseen ones to the list at listPath. Returns the number of
// names added.
func (s *Service) Run(ctx context.Context, listPath string) (int, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	existing, err := playerlist.LoadSet(listPath)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "loaded existing player list", "names", len(existing), "path", listPath)

	var added []playerlist.Entry
	for _, table := range s.opts.Tables {
		names := s.sampleSkill(ctx, table, existing)
		for _, name := range names {
			existing[name] = struct{}{}
			added = append(added, playerlist.Entry{
				PlayerName:  name,
				SourceSkill: table.Skill,
			})
		}
	}

	err = playerlist.Append(listPath, added)
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int("added", len(added)))
	return len(added), nil
}

func (s *Service) sampleSkill(ctx context.Context, table SkillTable, existing map[string]struct{}) []string {
	ctx, span := tracer.Start(ctx, "sampleSkill")
	defer span.End()
	span.SetAttributes(attribute.String("skill", table.Skill))

	var collected []string

	for attempt := 0; attempt < s.opts.MaxAttempts && len(collected) < s.opts.TargetPerSkill; attempt++ {
		page, err := random.IntRange(1, s.opts.MaxPage+1)
		if err != nil {
			slog.ErrorContext(ctx, "failed to pick a random page", "err", err)
			return collected
		}

		names, err := s.fetchPageNames(ctx, table.Table, page)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to fetch hiscore page",
				"skill", table.Skill,
				"page", page,
				"err", err,
			)
			s.opts.Sleep(time.Second)
			continue
		}

		for _, name := range names {
			if _, seen := existing[name]; seen {
				continue
			}
			duplicate := false
			for _, c := range collected {
				if c == name {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			collected = append(collected, name)
			if len(collected) >= s.opts.TargetPerSkill {
				break
			}
		}

		// be polite to the server
		s.opts.Sleep(time.Millisecond * 500)
	}

	if len(collected) < s.opts.TargetPerSkill {
		slog.WarnContext(
			ctx, "sampling fell short of target",
			"skill", table.Skill,
			"collected", len(collected),
			"target", s.opts.TargetPerSkill,
		)
	}

	return collected
}

// fetchPageNames scrapes every player name from one page of a skill
// table. The name is the anchor inside each body row of the first table
// on the page.
func (s *Service) fetchPageNames(ctx context.Context, tableIndex, page int) ([]string, error) {
	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("table", fmt.Sprintf("%d", tableIndex)).
		SetQueryParam("page", fmt.Sprintf("%d", page)).
		Get("")
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d from hiscore page", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	var names []string
	doc.Find("table").First().Find("tr").Each(func(i int, row *goquery.Selection) {
		// first row is the header
		if i == 0 {
			return
		}
		for _, anchor := range htmlutil.Anchors(row) {
			names = append(names, anchor.Name)
		}
	})

	return names, nil
}
