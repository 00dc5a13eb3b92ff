package extract

import (
	"context"
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/pkg/logger"
)

var tracer = otel.Tracer("b2b-market-scraper/internal/extract")

// FallbackHypothesis names the class-substring heuristic in logs and spans.
const FallbackHypothesis = "fallback"

// PageExtractor finds the listing fragments of a page and maps a
// RecordExtractor over them. It keeps no state between pages.
type PageExtractor struct {
	layout  *Layout
	records *RecordExtractor
	log     *logger.Logger
}

func NewPageExtractor(layout *Layout, records *RecordExtractor, log *logger.Logger) *PageExtractor {
	if log == nil {
		log = logger.Nop()
	}
	return &PageExtractor{layout: layout, records: records, log: log}
}

// Fragments returns the listing fragments of doc along with the hypothesis
// that produced them. Hypotheses are never mixed within one page.
func (p *PageExtractor) Fragments(doc *goquery.Document) (*goquery.Selection, string) {
	for _, sel := range p.layout.Listing {
		if found := doc.Find(sel); found.Length() > 0 {
			return found, sel
		}
	}
	if p.layout.FallbackClass == nil || p.layout.FallbackContainers == "" {
		return doc.FindNodes(), ""
	}
	found := doc.Find(p.layout.FallbackContainers).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return p.layout.FallbackClass.MatchString(s.AttrOr("class", ""))
	})
	if found.Length() == 0 {
		return found, ""
	}
	return found, FallbackHypothesis
}

// Extract returns the records on one page. A fragment that fails is logged
// and skipped; a page with no fragments yields an empty slice.
func (p *PageExtractor) Extract(ctx context.Context, doc *goquery.Document, sourceURL, category string) []models.ProductRecord {
	_, span := tracer.Start(ctx, "PageExtractor.Extract", trace.WithAttributes(
		attribute.String("source_url", sourceURL),
		attribute.String("category", category),
	))
	defer span.End()

	frags, hypothesis := p.Fragments(doc)
	span.SetAttributes(
		attribute.String("hypothesis", hypothesis),
		attribute.Int("fragments", frags.Length()),
	)
	if frags.Length() == 0 {
		p.log.Warnf("no listing fragments found on %s", sourceURL)
		span.SetStatus(codes.Error, "no listing fragments")
		return []models.ProductRecord{}
	}

	out := make([]models.ProductRecord, 0, frags.Length())
	skipped := 0
	frags.Each(func(i int, frag *goquery.Selection) {
		rec, ok, err := p.extractOne(frag, sourceURL, category)
		switch {
		case err != nil:
			skipped++
			p.log.Warnf("fragment %d on %s: %v", i, sourceURL, err)
			span.RecordError(err)
		case !ok:
			skipped++
			p.log.Debugf("fragment %d on %s has no title", i, sourceURL)
		default:
			out = append(out, rec)
		}
	})

	span.SetAttributes(attribute.Int("records", len(out)), attribute.Int("skipped", skipped))
	p.log.Debugf("extracted %d records from %s (hypothesis %q, %d skipped)", len(out), sourceURL, hypothesis, skipped)
	return out
}

func (p *PageExtractor) extractOne(frag *goquery.Selection, sourceURL, category string) (rec models.ProductRecord, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while extracting fragment: %v", r)
		}
	}()
	rec, ok = p.records.Extract(frag, sourceURL, category)
	return rec, ok, nil
}

// ListingLinks returns the absolute detail-page URLs of doc, taken from the
// first link hypothesis that yields any href. The result is sorted and
// contains no duplicates.
func (p *PageExtractor) ListingLinks(doc *goquery.Document) []string {
	set := map[string]struct{}{}
	for _, sel := range p.layout.Links {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			if href := p.records.Absolute(a.AttrOr("href", "")); href != "" {
				set[href] = struct{}{}
			}
		})
		if len(set) > 0 {
			break
		}
	}
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
