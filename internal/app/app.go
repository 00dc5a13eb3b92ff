// Package app builds the long-lived components shared by the CLI and the
// HTTP service from configuration.
package app

import (
	"context"
	"os"

	"b2b-market-scraper/config"
	"b2b-market-scraper/internal/catalog"
	"b2b-market-scraper/internal/cleaner"
	"b2b-market-scraper/internal/crawler"
	"b2b-market-scraper/internal/dedup"
	"b2b-market-scraper/internal/extract"
	"b2b-market-scraper/internal/scrape"
	"b2b-market-scraper/internal/storage"
	"b2b-market-scraper/pkg/logger"
)

type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Market  extract.Marketplace
	Fetcher crawler.Fetcher

	closers []func()
}

func New(cfg *config.Config) (*App, error) {
	log := logger.NewWithOptions(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	market, err := extract.NewIndiaMART(extract.Options{
		Name:     cfg.Marketplace.Name,
		BaseURL:  cfg.Marketplace.BaseURL,
		Currency: cfg.Marketplace.Currency,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Log: log, Market: market}
	if cfg.Fetch.Mode == "browser" {
		b := crawler.NewBrowserFetcher(crawler.BrowserOptions{
			Headless:      cfg.Fetch.Headless,
			Timeout:       cfg.Fetch.Timeout,
			RatePerSecond: cfg.Scrape.RatePerSecond,
			UserAgents:    cfg.Fetch.UserAgents,
			Logger:        log,
		})
		a.Fetcher = b
		a.closers = append(a.closers, b.Close)
	} else {
		a.Fetcher = crawler.NewHTTPFetcher(crawler.HTTPOptions{
			Timeout:       cfg.Fetch.Timeout,
			Retries:       cfg.Fetch.Retries,
			RetryWait:     cfg.Fetch.RetryWait,
			RetryMaxWait:  cfg.Fetch.RetryMaxWait,
			SizeCap:       cfg.Fetch.SizeCap,
			RatePerSecond: cfg.Scrape.RatePerSecond,
			Burst:         cfg.Scrape.Burst,
			UserAgents:    cfg.Fetch.UserAgents,
			Logger:        log,
		})
	}
	return a, nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

// Runner returns a scrape runner; maxProducts <= 0 keeps the configured cap.
func (a *App) Runner(maxProducts int) *scrape.Runner {
	if maxProducts <= 0 {
		maxProducts = a.Config.Scrape.MaxProducts
	}
	return scrape.NewRunner(a.Fetcher, a.Market, scrape.Options{
		Workers:     a.Config.Scrape.Workers,
		MaxProducts: maxProducts,
		SearchPages: a.Config.Scrape.SearchPages,
		Logger:      a.Log,
	})
}

func (a *App) Catalog() (catalog.Catalog, error) {
	return catalog.Load(a.Config.Data.Catalog, a.Log)
}

func (a *App) Cleaner() *cleaner.Cleaner {
	return cleaner.New(cleaner.Options{
		OutlierLow:  a.Config.Clean.OutlierLow,
		OutlierHigh: a.Config.Clean.OutlierHigh,
	}, a.Log)
}

// DedupOptions uses the configured threshold unless threshold > 0.
func (a *App) DedupOptions(threshold float64) (dedup.Options, error) {
	scorer, err := dedup.ScorerByName(a.Config.Clean.SimilarityScorer)
	if err != nil {
		return dedup.Options{}, err
	}
	if threshold <= 0 {
		threshold = a.Config.Clean.SimilarityThreshold
	}
	return dedup.Options{Threshold: threshold, Scorer: scorer, Logger: a.Log}, nil
}

// Store opens the configured sink with its schema in place. It returns nil
// when no driver is configured.
func (a *App) Store(ctx context.Context) (storage.Store, error) {
	if a.Config.Storage.Driver == "" {
		return nil, nil
	}
	s, err := storage.Open(ctx, a.Config.Storage.Driver, a.Config.Storage.DSN, a.Log)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
