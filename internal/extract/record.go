package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"b2b-market-scraper/internal/fields"
	"b2b-market-scraper/internal/models"
)

// RecordExtractor turns one listing fragment into a ProductRecord.
type RecordExtractor struct {
	layout      *Layout
	base        *url.URL
	marketplace string
	currency    string
}

func NewRecordExtractor(layout *Layout, base *url.URL, marketplace, currency string) *RecordExtractor {
	if currency == "" {
		currency = fields.DefaultCurrency
	}
	return &RecordExtractor{layout: layout, base: base, marketplace: marketplace, currency: currency}
}

// Extract reads every field of frag. ok is false when the fragment has no
// title; every other missing field is left empty.
func (e *RecordExtractor) Extract(frag *goquery.Selection, sourceURL, category string) (rec models.ProductRecord, ok bool) {
	title := FirstMatch(frag, e.layout.Title)
	if title == "" {
		return models.ProductRecord{}, false
	}

	price := fields.ParsePriceIn(FirstMatch(frag, e.layout.Price), e.currency)

	return models.ProductRecord{
		Title:        title,
		SupplierName: FirstMatch(frag, e.layout.Supplier),
		Location:     FirstMatch(frag, e.layout.Location),
		Description:  FirstMatch(frag, e.layout.Description),
		RawPrice:     price.RawText,
		NumericPrice: price.NumericValue,
		Currency:     price.Currency,
		PriceUnit:    price.Unit,
		ImageURL:     e.Absolute(FirstMatch(frag, e.layout.Image)),
		ProductURL:   e.Absolute(FirstMatch(frag, e.layout.Link)),
		SourceURL:    sourceURL,
		Category:     category,
		Marketplace:  e.marketplace,
	}, true
}

// Absolute resolves ref against the marketplace origin. Unparseable refs
// resolve to "".
func (e *RecordExtractor) Absolute(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	if e.base == nil {
		return ""
	}
	return e.base.ResolveReference(u).String()
}
