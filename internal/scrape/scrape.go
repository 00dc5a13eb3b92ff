// Package scrape plans the listing URLs for a category, fetches them with
// bounded parallelism and turns every page into product records.
package scrape

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"b2b-market-scraper/internal/catalog"
	"b2b-market-scraper/internal/crawler"
	"b2b-market-scraper/internal/extract"
	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/internal/parser"
	"b2b-market-scraper/pkg/logger"
)

type Options struct {
	Workers     int
	MaxProducts int // 0 means no cap
	SearchPages int
	Logger      *logger.Logger
}

// PageResult is the outcome for one URL. Err is set when the page was
// skipped.
type PageResult struct {
	URL      string                 `json:"url"`
	FinalURL string                 `json:"finalUrl,omitempty"`
	FetchMs  int64                  `json:"fetchMs"`
	Records  []models.ProductRecord `json:"records"`
	Links    []string               `json:"links,omitempty"`
	Err      string                 `json:"error,omitempty"`
}

// Run summarises one category scrape.
type Run struct {
	ID           string                 `json:"id"`
	Category     string                 `json:"category"`
	Marketplace  string                 `json:"marketplace"`
	StartedAt    time.Time              `json:"startedAt"`
	FinishedAt   time.Time              `json:"finishedAt"`
	PagesFetched int                    `json:"pagesFetched"`
	PagesFailed  int                    `json:"pagesFailed"`
	PagesSkipped int                    `json:"pagesSkipped"`
	Records      []models.ProductRecord `json:"records"`
}

type Runner struct {
	fetcher crawler.Fetcher
	market  extract.Marketplace
	parser  *parser.Parser
	opts    Options
	log     *logger.Logger
}

func NewRunner(f crawler.Fetcher, m extract.Marketplace, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Runner{fetcher: f, market: m, parser: parser.New(), opts: opts, log: opts.Logger}
}

// Plan lists the seed URLs of a category followed by the search result pages
// of each keyword, without repeats.
func (r *Runner) Plan(c catalog.Category) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(u string) {
		if _, ok := seen[u]; ok || u == "" {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	for _, u := range c.URLs {
		add(u)
	}
	for _, kw := range c.Keywords {
		for _, u := range r.market.SearchURLs(kw, r.opts.SearchPages) {
			add(u)
		}
	}
	return out
}

// Page fetches and extracts a single URL.
func (r *Runner) Page(ctx context.Context, rawURL, category string) PageResult {
	res := PageResult{URL: rawURL, Records: []models.ProductRecord{}}
	resp, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.FinalURL = resp.FinalURL
	res.FetchMs = resp.Elapsed.Milliseconds()

	doc, err := r.parser.ParseBytes(resp.Body, resp.ContentType)
	if err != nil {
		res.Err = fmt.Sprintf("parse: %v", err)
		return res
	}
	res.Records = r.market.Records(ctx, doc.Doc, resp.FinalURL, category)
	res.Links = r.market.ListingLinks(doc.Doc)
	return res
}

// Run scrapes urls for category. Records keep URL order and are cut at
// MaxProducts; once enough records are in hand, pages not yet started are
// skipped. Failed pages are logged and skipped. Only cancellation of ctx is
// returned as an error.
func (r *Runner) Run(ctx context.Context, category string, urls []string) (*Run, error) {
	run := &Run{
		ID:          uuid.NewString(),
		Category:    category,
		Marketplace: r.market.Name(),
		StartedAt:   time.Now().UTC(),
	}
	log := r.log.With("run", run.ID, "category", category)
	log.Infof("scraping %d urls with %d workers", len(urls), r.opts.Workers)

	results := make([]PageResult, len(urls))
	skipped := make([]bool, len(urls))
	var collected atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if r.opts.MaxProducts > 0 && collected.Load() >= int64(r.opts.MaxProducts) {
				skipped[i] = true
				return nil
			}
			res := r.Page(gctx, u, category)
			if res.Err != "" {
				log.Warnf("skipping %s: %s", u, res.Err)
			} else {
				log.Infof("extracted %d products from %s", len(res.Records), u)
			}
			collected.Add(int64(len(res.Records)))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	run.Records = []models.ProductRecord{}
	for i, res := range results {
		switch {
		case skipped[i]:
			run.PagesSkipped++
		case res.Err != "":
			run.PagesFailed++
		default:
			run.PagesFetched++
			run.Records = append(run.Records, res.Records...)
		}
	}
	if r.opts.MaxProducts > 0 && len(run.Records) > r.opts.MaxProducts {
		run.Records = run.Records[:r.opts.MaxProducts]
	}
	run.FinishedAt = time.Now().UTC()
	log.Infof("collected %d products (%d pages ok, %d failed, %d skipped)",
		len(run.Records), run.PagesFetched, run.PagesFailed, run.PagesSkipped)
	return run, nil
}
