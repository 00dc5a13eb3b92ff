package extract

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/pkg/logger"
)

// Marketplace is everything the scrape pipeline needs to know about one
// site. Cleaning never depends on it.
type Marketplace interface {
	Name() string
	ListingLinks(doc *goquery.Document) []string
	Records(ctx context.Context, doc *goquery.Document, sourceURL, category string) []models.ProductRecord
	SearchURLs(query string, pages int) []string
}

type Options struct {
	Name     string
	BaseURL  string
	Currency string
	Logger   *logger.Logger
}

// SiteMarketplace drives a PageExtractor with a fixed Layout.
type SiteMarketplace struct {
	name       string
	base       *url.URL
	searchPath string
	pages      *PageExtractor
}

func (m *SiteMarketplace) Name() string { return m.name }

func (m *SiteMarketplace) ListingLinks(doc *goquery.Document) []string {
	return m.pages.ListingLinks(doc)
}

func (m *SiteMarketplace) Records(ctx context.Context, doc *goquery.Document, sourceURL, category string) []models.ProductRecord {
	return m.pages.Extract(ctx, doc, sourceURL, category)
}

// SearchURLs builds the result-page URLs for a keyword search.
func (m *SiteMarketplace) SearchURLs(query string, pages int) []string {
	query = strings.TrimSpace(query)
	if query == "" || pages <= 0 {
		return nil
	}
	out := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		u := *m.base
		u.Path = m.searchPath
		u.RawQuery = fmt.Sprintf("ss=%s&page=%d", url.QueryEscape(query), page)
		out = append(out, u.String())
	}
	return out
}

const (
	IndiaMARTName    = "IndiaMART"
	IndiaMARTBaseURL = "https://www.indiamart.com"
)

// IndiaMARTLayout covers the listing markups seen on category and search
// result pages.
func IndiaMARTLayout() *Layout {
	return &Layout{
		Listing:            []string{".prd", ".lst", ".product-item", ".srp-list-item", ".prd-item"},
		FallbackContainers: "div[class]",
		FallbackClass:      regexp.MustCompile(`(?i)(product|prd|item)`),

		Title:       TextProbes(".prd-name", ".lst-name", ".product-name", "h3", "h4", ".title"),
		Price:       TextProbes(".prd-price", ".lst-price", ".price", ".prd-prc"),
		Supplier:    TextProbes(".prd-comp", ".lst-comp", ".company-name", ".supplier"),
		Location:    TextProbes(".prd-loc", ".lst-loc", ".location", ".city"),
		Description: TextProbes(".prd-desc", ".description", ".details"),
		Image:       []Probe{SelectorAttr("img", "src", "data-src")},
		Link:        []Probe{SelectorAttr("a", "href")},

		Links: []string{".prd a", ".lst a", ".product-item a", `a[href*="/proddetail/"]`},
	}
}

// NewIndiaMART returns the IndiaMART marketplace. Empty options fall back
// to the public site.
func NewIndiaMART(opts Options) (*SiteMarketplace, error) {
	if opts.Name == "" {
		opts.Name = IndiaMARTName
	}
	if opts.BaseURL == "" {
		opts.BaseURL = IndiaMARTBaseURL
	}
	return NewSiteMarketplace(opts, IndiaMARTLayout(), "/search.mp")
}

func NewSiteMarketplace(opts Options, layout *Layout, searchPath string) (*SiteMarketplace, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseURL)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("marketplace", opts.Name)
	records := NewRecordExtractor(layout, base, opts.Name, opts.Currency)
	return &SiteMarketplace{
		name:       opts.Name,
		base:       base,
		searchPath: searchPath,
		pages:      NewPageExtractor(layout, records, log),
	}, nil
}
