//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"b2b-market-scraper/internal/analysis"
	"b2b-market-scraper/internal/catalog"
	"b2b-market-scraper/internal/crawler"
	"b2b-market-scraper/internal/extract"
	"b2b-market-scraper/internal/scrape"
	"b2b-market-scraper/pkg/logger"
)

func TestIndiaMARTCategoryPage(t *testing.T) {
	// live listing page (subject to change / blocking)
	cat := catalog.Default()["industrial_machinery"]

	fetcher := crawler.NewHTTPFetcher(crawler.HTTPOptions{
		Timeout:       25 * time.Second,
		Retries:       1,
		SizeCap:       5 * 1024 * 1024,
		RatePerSecond: 1,
		Logger:        logger.Nop(),
	})
	market, err := extract.NewIndiaMART(extract.Options{})
	if err != nil {
		t.Fatal(err)
	}
	runner := scrape.NewRunner(fetcher, market, scrape.Options{Workers: 1, MaxProducts: 20})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res := runner.Page(ctx, cat.URLs[0], "industrial_machinery")
	if res.Err != "" {
		t.Skipf("skipping: fetch failed due to network/captcha: %s", res.Err)
		return
	}
	if len(res.Records) == 0 {
		t.Skip("skipping: no listings on page, layout may have changed")
	}
	for _, r := range res.Records {
		if r.Title == "" {
			t.Errorf("record without title from %s", r.SourceURL)
		}
		if r.Marketplace != "IndiaMART" {
			t.Errorf("expected IndiaMART marketplace, got %q", r.Marketplace)
		}
	}

	titles := make([]string, len(res.Records))
	for i, r := range res.Records {
		titles[i] = r.Title
	}
	if len(analysis.TopWords(titles, 10)) == 0 {
		t.Errorf("expected non-empty title words")
	}
}
