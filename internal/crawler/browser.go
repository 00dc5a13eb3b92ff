package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"b2b-market-scraper/pkg/logger"
)

type BrowserOptions struct {
	Headless bool
	Timeout  time.Duration
	// WaitSelector, when set, must become ready before the page is read.
	WaitSelector  string
	RatePerSecond float64
	UserAgents    []string
	Logger        *logger.Logger
}

// BrowserFetcher renders pages in headless Chrome for listings that are
// filled in by JavaScript. Close releases the browser.
type BrowserFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	opts        BrowserOptions
	limiter     *rate.Limiter
}

func NewBrowserFetcher(opts BrowserOptions) *BrowserFetcher {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(pickUserAgent(opts.UserAgents)),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return &BrowserFetcher{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		opts:        opts,
		limiter:     rate.NewLimiter(limit, 1),
	}
}

func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (Response, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return Response{}, err
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return Response{}, err
	}

	tabCtx, tabCancel := chromedp.NewContext(b.allocCtx)
	defer tabCancel()
	tabCtx, cancel := context.WithTimeout(tabCtx, b.opts.Timeout)
	defer cancel()
	// stop the tab when the caller gives up
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	start := time.Now()
	var html, finalURL string
	actions := []chromedp.Action{chromedp.Navigate(u.String())}
	if b.opts.WaitSelector != "" {
		actions = append(actions, chromedp.WaitReady(b.opts.WaitSelector, chromedp.ByQuery))
	}
	actions = append(actions,
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return Response{}, fmt.Errorf("crawler: render %s: %w", u, err)
	}
	b.opts.Logger.Debugf("rendered %s (%d bytes)", finalURL, len(html))
	return Response{
		Body:        []byte(html),
		FinalURL:    finalURL,
		ContentType: "text/html; charset=utf-8",
		Elapsed:     time.Since(start),
	}, nil
}

func (b *BrowserFetcher) Close() {
	b.allocCancel()
}
