// Package leaderboard scrapes a boss hiscore table into ranked rows.
// Its CSV export is the input of the deltas pipeline: the usernames
// whose kill counts get tracked over time.
package leaderboard

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"hiscores-backend/lib/htmlutil"
	"hiscores-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/leaderboard")

const DefaultBaseUrl = "https://secure.runescape.com/m=hiscore_oldschool/overall"

// BossCategory selects the boss tables on the hiscore website, as
// opposed to the skill tables of category 0.
const BossCategory = 1

// VorkathTable is vorkath's index within the boss category.
const VorkathTable = 83

type Options struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to BossCategory
	Category int
	// defaults to VorkathTable
	Table int
	// pages scraped per run, defaults to 10
	Pages int
	// pause between page fetches, defaults to 2s
	PageDelay time.Duration
	// defaults to time.Sleep, injectable for tests
	Sleep func(time.Duration)
}

// Row is one ranked leaderboard entry.
type Row struct {
	Rank      int64
	Username  string
	KillCount int64
}

type Service struct {
	http *resty.Client
	opts Options
}

func NewService(opts Options) *Service {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Category <= 0 {
		opts.Category = BossCategory
	}
	if opts.Table <= 0 {
		opts.Table = VorkathTable
	}
	if opts.Pages <= 0 {
		opts.Pages = 10
	}
	if opts.PageDelay <= 0 {
		opts.PageDelay = time.Second * 2
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(time.Second * 15)
	client.SetHeader("user-agent", "hiscores-backend/1.0 (panel harvester)")
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "services/leaderboard/http")

	return &Service{http: client, opts: opts}
}

// Run scrapes every configured page in order. A failing page is logged
// and skipped so one bad response does not cost the whole run.
func (s *Service) Run(ctx context.Context) []Row {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("table", s.opts.Table),
		attribute.Int("pages", s.opts.Pages),
	)

	var rows []Row
	for page := 1; page <= s.opts.Pages; page++ {
		pageRows, err := s.fetchPage(ctx, page)
		if err != nil {
			slog.WarnContext(
				ctx, "failed to fetch leaderboard page",
				"table", s.opts.Table,
				"page", page,
				"err", err,
			)
		} else {
			rows = append(rows, pageRows...)
		}
		s.opts.Sleep(s.opts.PageDelay)
	}

	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows
}

// fetchPage parses the ranked rows out of the first table on one page.
// The first row is the column header; rows whose rank or kill count
// does not parse are skipped rather than failing the page.
func (s *Service) fetchPage(ctx context.Context, page int) ([]Row, error) {
	res, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("category_type", fmt.Sprintf("%d", s.opts.Category)).
		SetQueryParam("table", fmt.Sprintf("%d", s.opts.Table)).
		SetQueryParam("page", fmt.Sprintf("%d", page)).
		Get("")
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d from leaderboard page", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}

	var rows []Row
	doc.Find("table").First().Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}

		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, htmlutil.CleanText(td.Text()))
		})
		if len(cells) < 3 {
			return
		}

		rank, err := strconv.ParseInt(strings.ReplaceAll(cells[0], ",", ""), 10, 64)
		if err != nil {
			return
		}
		// the site renders kill counts with thousands separators
		kc, err := strconv.ParseInt(strings.ReplaceAll(cells[2], ",", ""), 10, 64)
		if err != nil {
			return
		}

		rows = append(rows, Row{
			Rank:      rank,
			Username:  cells[1],
			KillCount: kc,
		})
	})

	return rows, nil
}

// WriteCSV saves the scraped leaderboard where the deltas command
// expects to find it. The kill count column is named after the metric,
// e.g. vorkath_kc.
func WriteCSV(path, metric string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write([]string{"rank", "username", metric + "_kc"})
	if err != nil {
		return err
	}
	for _, row := range rows {
		err = writer.Write([]string{
			strconv.FormatInt(row.Rank, 10),
			row.Username,
			strconv.FormatInt(row.KillCount, 10),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
