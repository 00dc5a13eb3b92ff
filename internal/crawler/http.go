package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"b2b-market-scraper/pkg/logger"
)

var tracer = otel.Tracer("b2b-market-scraper/internal/crawler")

type HTTPOptions struct {
	Timeout      time.Duration
	Retries      int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	// SizeCap truncates bodies longer than this many bytes. 0 disables it.
	SizeCap int64
	// RatePerSecond <= 0 disables rate limiting.
	RatePerSecond float64
	Burst         int
	UserAgents    []string
	Logger        *logger.Logger
}

// HTTPFetcher is a polite resty-based Fetcher.
type HTTPFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	sizeCap int64
	agents  []string
	log     *logger.Logger
}

func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(opts.RetryWait)
	client.SetRetryMaxWaitTime(opts.RetryMaxWait)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
	})
	client.SetHeaders(map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Connection":      "keep-alive",
	})

	return &HTTPFetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, opts.Burst),
		sizeCap: opts.SizeCap,
		agents:  opts.UserAgents,
		log:     opts.Logger,
	}
}

func (h *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (Response, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return Response{}, err
	}
	ctx, span := tracer.Start(ctx, "HTTPFetcher.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", u.String()))

	if err := h.limiter.Wait(ctx); err != nil {
		return Response{}, err
	}

	start := time.Now()
	res, err := h.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", pickUserAgent(h.agents)).
		Get(u.String())
	if err != nil {
		span.RecordError(err)
		return Response{}, fmt.Errorf("crawler: get %s: %w", u, err)
	}
	if res.IsError() {
		return Response{}, fmt.Errorf("crawler: get %s: http status %d", u, res.StatusCode())
	}

	contentType := res.Header().Get("Content-Type")
	if !isHTML(contentType) {
		return Response{}, fmt.Errorf("%w: %s (%s)", ErrNonHTML, u, contentType)
	}

	body := res.Body()
	if h.sizeCap > 0 && int64(len(body)) > h.sizeCap {
		h.log.Warnf("truncating %s from %d to %d bytes", u, len(body), h.sizeCap)
		body = body[:h.sizeCap]
	}

	finalURL := u.String()
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalURL = res.RawResponse.Request.URL.String()
	}
	elapsed := time.Since(start)
	h.log.Debugf("fetched %s (%d bytes, %s)", finalURL, len(body), elapsed)
	return Response{Body: body, FinalURL: finalURL, ContentType: contentType, Elapsed: elapsed}, nil
}
