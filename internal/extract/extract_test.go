package extract

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<div class="prd">
  <a href="/proddetail/air-compressor-123.html"><img data-src="//img.indiamart.com/a.jpg"></a>
  <h3>  Air   Compressor 10 HP </h3>
  <span class="prd-price">₹ 45,000 / Piece</span>
  <span class="prd-comp">Acme Tools Pvt Ltd</span>
  <span class="prd-loc">Andheri East, Mumbai</span>
  <p class="prd-desc">Heavy duty</p>
</div>
<div class="prd"><span class="prd-price">₹10</span></div>
<div class="prd">
  <h4>Drill Machine</h4>
  <img src="https://cdn.example.com/d.jpg">
  <span class="price">₹1,200 - ₹1,800 per kg</span>
</div>
<div class="lst"><h3>Should Not Appear</h3></div>
<a href="https://www.indiamart.com/proddetail/outside.html">outside</a>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newIndiaMART(t *testing.T) *SiteMarketplace {
	t.Helper()
	m, err := NewIndiaMART(Options{})
	require.NoError(t, err)
	return m
}

func TestRecords(t *testing.T) {
	m := newIndiaMART(t)
	recs := m.Records(context.Background(), mustDoc(t, listingPage), "https://www.indiamart.com/industrial-machinery/", "industrial_machinery")
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "Air Compressor 10 HP", first.Title)
	assert.Equal(t, "Acme Tools Pvt Ltd", first.SupplierName)
	assert.Equal(t, "Andheri East, Mumbai", first.Location)
	assert.Equal(t, "Heavy duty", first.Description)
	assert.Equal(t, "₹ 45,000 / Piece", first.RawPrice)
	require.NotNil(t, first.NumericPrice)
	assert.Equal(t, 45000.0, *first.NumericPrice)
	assert.Equal(t, "piece", first.PriceUnit)
	assert.Equal(t, "INR", first.Currency)
	assert.Equal(t, "https://img.indiamart.com/a.jpg", first.ImageURL)
	assert.Equal(t, "https://www.indiamart.com/proddetail/air-compressor-123.html", first.ProductURL)
	assert.Equal(t, "https://www.indiamart.com/industrial-machinery/", first.SourceURL)
	assert.Equal(t, "industrial_machinery", first.Category)
	assert.Equal(t, IndiaMARTName, first.Marketplace)

	second := recs[1]
	assert.Equal(t, "Drill Machine", second.Title)
	assert.Equal(t, "", second.SupplierName)
	assert.Equal(t, "", second.ProductURL)
	assert.Equal(t, "https://cdn.example.com/d.jpg", second.ImageURL)
	require.NotNil(t, second.NumericPrice)
	assert.Equal(t, 1500.0, *second.NumericPrice)
	assert.Equal(t, "kilogram", second.PriceUnit)
}

func TestFragmentsFallback(t *testing.T) {
	m := newIndiaMART(t)
	doc := mustDoc(t, `<html><body><div class="ProductCard"><h3>Cotton Yarn</h3><span class="price">₹ 210 per kg</span></div><div class="footer">x</div></body></html>`)

	frags, hypothesis := m.pages.Fragments(doc)
	assert.Equal(t, FallbackHypothesis, hypothesis)
	assert.Equal(t, 1, frags.Length())

	recs := m.Records(context.Background(), doc, "https://www.indiamart.com/textiles/", "textiles")
	require.Len(t, recs, 1)
	assert.Equal(t, "Cotton Yarn", recs[0].Title)
}

func TestRecordsNoFragments(t *testing.T) {
	m := newIndiaMART(t)
	recs := m.Records(context.Background(), mustDoc(t, `<html><body><p>Access denied</p></body></html>`), "https://www.indiamart.com/x/", "x")
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestFragmentFailureIsIsolated(t *testing.T) {
	layout := IndiaMARTLayout()
	// a nil layout makes every record read panic
	broken := NewPageExtractor(layout, NewRecordExtractor(nil, nil, "x", ""), nil)
	recs := broken.Extract(context.Background(), mustDoc(t, listingPage), "https://www.indiamart.com/", "c")
	assert.Empty(t, recs)
}

func TestFirstMatch(t *testing.T) {
	doc := mustDoc(t, `<div id="f"><span class="b">  second </span><span class="c">third</span></div>`)
	frag := doc.Find("#f")
	panicky := func(*goquery.Selection) string { panic("boom") }

	got := FirstMatch(frag, []Probe{SelectorText(".a"), panicky, SelectorText(".b"), SelectorText(".c")})
	assert.Equal(t, "second", got)
	assert.Equal(t, "", FirstMatch(frag, []Probe{SelectorText(".missing")}))
	assert.Equal(t, "", FirstMatch(frag, nil))
}

func TestListingLinks(t *testing.T) {
	m := newIndiaMART(t)
	doc := mustDoc(t, `<html><body>
<div class="prd"><a href="/proddetail/b.html">b</a></div>
<div class="prd"><a href="/proddetail/a.html">a</a><a href="/proddetail/b.html">b again</a></div>
<a href="/proddetail/not-first-hypothesis.html">x</a>
</body></html>`)

	assert.Equal(t, []string{
		"https://www.indiamart.com/proddetail/a.html",
		"https://www.indiamart.com/proddetail/b.html",
	}, m.ListingLinks(doc))

	loose := mustDoc(t, `<a href="/proddetail/z.html">z</a><a href="/about">about</a>`)
	assert.Equal(t, []string{"https://www.indiamart.com/proddetail/z.html"}, m.ListingLinks(loose))
	assert.Empty(t, m.ListingLinks(mustDoc(t, `<p>none</p>`)))
}

func TestSearchURLs(t *testing.T) {
	m := newIndiaMART(t)
	assert.Equal(t, []string{
		"https://www.indiamart.com/search.mp?ss=industrial+machinery&page=1",
		"https://www.indiamart.com/search.mp?ss=industrial+machinery&page=2",
	}, m.SearchURLs("industrial machinery", 2))
	assert.Nil(t, m.SearchURLs("", 3))
}

func TestAbsolute(t *testing.T) {
	base, _ := url.Parse("https://www.indiamart.com")
	e := NewRecordExtractor(IndiaMARTLayout(), base, "IndiaMART", "")
	assert.Equal(t, "https://www.indiamart.com/images/p.jpg", e.Absolute("images/p.jpg"))
	assert.Equal(t, "https://x.example.com/p.jpg", e.Absolute("https://x.example.com/p.jpg"))
	assert.Equal(t, "", e.Absolute("  "))
	assert.Equal(t, "", NewRecordExtractor(IndiaMARTLayout(), nil, "", "").Absolute("/rel"))
}

func TestNewSiteMarketplaceRejectsRelativeBase(t *testing.T) {
	_, err := NewSiteMarketplace(Options{Name: "x", BaseURL: "/relative"}, IndiaMARTLayout(), "/search")
	assert.Error(t, err)
}

var _ Marketplace = (*SiteMarketplace)(nil)
