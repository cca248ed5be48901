package aoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"time"

	"starboard-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/aoc")

var (
	ErrFetch       = errors.New("failed to fetch ranking page")
	ErrParse       = errors.New("failed to parse ranking page")
	ErrEmptyResult = errors.New("ranking page contained no valid rows")
)

type Client struct {
	BaseUrl string
	Http    *resty.Client
}

type ClientOptions struct {
	// Full URL of the public ranking page.
	BaseUrl string
	// Optional sink for request/response transcripts, nil disables
	// the dumps but keeps tracing.
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 10)

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return &Client{
		BaseUrl: opts.BaseUrl,
		Http:    client,
	}, nil
}

// Scrape fetches and parses the ranking page. The returned dataset is
// sorted by points descending and every record shares one day-column
// width.
func (c *Client) Scrape(ctx context.Context) (Dataset, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.BaseUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch ranking page")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		err := fmt.Errorf("%w: unexpected status %d", ErrFetch, res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	table := doc.Find("table#rankingTable")
	if table.Length() == 0 {
		err := fmt.Errorf("%w: missing table#rankingTable", ErrParse)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected page structure")
		return nil, err
	}
	body := table.Find("tbody")
	if body.Length() == 0 {
		err := fmt.Errorf("%w: missing tbody", ErrParse)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected page structure")
		return nil, err
	}

	var dataset Dataset
	skipped := 0
	body.Find("tr").Each(func(i int, row *goquery.Selection) {
		record, ok := parseRow(row.Find("td"))
		if !ok {
			skipped++
			slog.WarnContext(ctx, "skipping malformed ranking row", "row", i)
			return
		}
		dataset = append(dataset, record)
	})
	span.SetAttributes(
		attribute.Int("rows", len(dataset)),
		attribute.Int("skipped", skipped),
	)

	if len(dataset) == 0 {
		span.SetStatus(codes.Error, "no valid rows")
		return nil, ErrEmptyResult
	}

	dataset.normalizeWidth()
	dataset.Sort()
	return dataset, nil
}

// ScrapeOrEmpty collapses any scrape failure into an empty dataset so
// callers have a single fallback path.
func (c *Client) ScrapeOrEmpty(ctx context.Context) Dataset {
	dataset, err := c.Scrape(ctx)
	if err != nil {
		slog.WarnContext(ctx, "scrape failed", "url", c.BaseUrl, "err", err)
		return Dataset{}
	}
	return dataset
}
