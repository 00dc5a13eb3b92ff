// Package analysis computes descriptive insights over a cleaned batch of
// listings: categories, pricing, suppliers, locations, text and quality.
package analysis

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/internal/stats"
)

type Overview struct {
	TotalRecords       int                `json:"totalRecords"`
	TotalColumns       int                `json:"totalColumns"`
	Columns            []string           `json:"columns"`
	MissingValues      map[string]int     `json:"missingValues"`
	MissingPercentages map[string]float64 `json:"missingPercentages"`
}

type CategoryInsights struct {
	TotalCategories int                `json:"totalCategories"`
	Distribution    []Count            `json:"distribution"`
	Percentages     map[string]float64 `json:"percentages"`
}

type PriceStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Q25    *float64 `json:"q25"`
	Q75    *float64 `json:"q75"`
}

// GroupPrice is the price summary of one category or state.
type GroupPrice struct {
	Key    string   `json:"key"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
}

type PriceInsights struct {
	ProductsWithPrice int          `json:"productsWithPrice"`
	Statistics        PriceStats   `json:"statistics"`
	Bands             []Count      `json:"bands"`
	ByCategory        []GroupPrice `json:"byCategory,omitempty"`
}

type SupplierInsights struct {
	TotalSuppliers         int     `json:"totalSuppliers"`
	AvgProductsPerSupplier float64 `json:"avgProductsPerSupplier"`
	TopSuppliers           []Count `json:"topSuppliers"`
	SingleProductSuppliers int     `json:"singleProductSuppliers"`
	MultiProductSuppliers  int     `json:"multiProductSuppliers"`
	Top10SupplierSharePct  float64 `json:"top10SupplierSharePct"`
}

type LocationInsights struct {
	TotalLocations   int                `json:"totalLocations"`
	TopLocations     []Count            `json:"topLocations,omitempty"`
	TotalStates      int                `json:"totalStates"`
	States           []Count            `json:"states,omitempty"`
	StatePercentages map[string]float64 `json:"statePercentages,omitempty"`
	PriceByState     []GroupPrice       `json:"priceByState,omitempty"`
}

type TextInsights struct {
	AvgTitleLength          *float64 `json:"avgTitleLength"`
	AvgTitleWords           *float64 `json:"avgTitleWords"`
	CommonTitleWords        []Count  `json:"commonTitleWords"`
	ProductsWithDescription int      `json:"productsWithDescription"`
	AvgDescriptionLength    *float64 `json:"avgDescriptionLength"`
	CommonDescriptionWords  []Count  `json:"commonDescriptionWords,omitempty"`
}

type QualityInsights struct {
	ColumnsWithMissing int      `json:"columnsWithMissing"`
	TotalMissing       int      `json:"totalMissing"`
	DuplicateRows      int      `json:"duplicateRows"`
	DuplicatePct       float64  `json:"duplicatePct"`
	ZeroPrices         int      `json:"zeroPrices"`
	NegativePrices     int      `json:"negativePrices"`
	OutlierPrices      int      `json:"outlierPrices"`
	OutlierPct         *float64 `json:"outlierPct"`
}

// Insights is the full analysis. Sections whose source column is absent are
// nil.
type Insights struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Overview    Overview          `json:"overview"`
	Categories  *CategoryInsights `json:"categories,omitempty"`
	Pricing     *PriceInsights    `json:"pricing,omitempty"`
	Suppliers   *SupplierInsights `json:"suppliers,omitempty"`
	Locations   *LocationInsights `json:"locations,omitempty"`
	Text        *TextInsights     `json:"text,omitempty"`
	Quality     QualityInsights   `json:"quality"`
}

// Band is a left-closed price interval [Low, High).
type Band struct {
	Label string
	Low   float64
	High  float64 // 0 means unbounded
}

var PriceBands = []Band{
	{"<₹100", 0, 100},
	{"₹100-500", 100, 500},
	{"₹500-1K", 500, 1000},
	{"₹1K-5K", 1000, 5000},
	{"₹5K-10K", 5000, 10000},
	{"₹10K-50K", 10000, 50000},
	{">₹50K", 50000, 0},
}

const (
	topSupplierCount = 10
	topLocationCount = 15
	topWordCount     = 20
)

// Analyze computes every insight section for t.
func Analyze(t *models.Table) Insights {
	return Insights{
		GeneratedAt: time.Now().UTC(),
		Overview:    overview(t),
		Categories:  categories(t),
		Pricing:     pricing(t),
		Suppliers:   suppliers(t),
		Locations:   locations(t),
		Text:        text(t),
		Quality:     quality(t),
	}
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return stats.Round2(float64(part) * 100 / float64(whole))
}

func round(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return models.Float(stats.Round2(*p))
}

func overview(t *models.Table) Overview {
	o := Overview{
		TotalRecords:       t.Len(),
		TotalColumns:       len(t.Columns),
		Columns:            append([]string(nil), t.Columns...),
		MissingValues:      map[string]int{},
		MissingPercentages: map[string]float64{},
	}
	for _, col := range t.Columns {
		n := 0
		for i := range t.Rows {
			if t.Rows[i].Missing(col) {
				n++
			}
		}
		o.MissingValues[col] = n
		o.MissingPercentages[col] = pct(n, t.Len())
	}
	return o
}

func countBy(t *models.Table, key func(models.ProductRecord) string) (map[string]int, int) {
	freq := map[string]int{}
	total := 0
	for _, r := range t.Rows {
		if k := key(r); k != "" {
			freq[k]++
			total++
		}
	}
	return freq, total
}

func percentages(freq map[string]int, total int) map[string]float64 {
	out := make(map[string]float64, len(freq))
	for k, v := range freq {
		out[k] = pct(v, total)
	}
	return out
}

func categories(t *models.Table) *CategoryInsights {
	if !t.Has(models.ColCategory) {
		return nil
	}
	freq, total := countBy(t, func(r models.ProductRecord) string { return r.Category })
	return &CategoryInsights{
		TotalCategories: len(freq),
		Distribution:    topCounts(freq, 0),
		Percentages:     percentages(freq, total),
	}
}

func presentPrices(rows []models.ProductRecord) []float64 {
	var out []float64
	for _, r := range rows {
		if r.NumericPrice != nil {
			out = append(out, *r.NumericPrice)
		}
	}
	return out
}

// groupPrices summarises prices per non-empty key, ordered by key. Count is
// the number of priced rows in the group.
func groupPrices(rows []models.ProductRecord, key func(models.ProductRecord) string) []GroupPrice {
	groups := map[string][]float64{}
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := groups[k]; !ok {
			groups[k] = nil
		}
		if r.NumericPrice != nil {
			groups[k] = append(groups[k], *r.NumericPrice)
		}
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]GroupPrice, 0, len(keys))
	for _, k := range keys {
		d := stats.Describe(groups[k])
		out = append(out, GroupPrice{Key: k, Count: d.Count, Mean: round(d.Mean), Median: round(d.Median)})
	}
	return out
}

func pricing(t *models.Table) *PriceInsights {
	if !t.Has(models.ColNumericPrice) {
		return nil
	}
	prices := presentPrices(t.Rows)
	p := &PriceInsights{ProductsWithPrice: len(prices)}
	if len(prices) > 0 {
		d := stats.Describe(prices)
		sorted := stats.Sorted(prices)
		p.Statistics = PriceStats{
			Mean: d.Mean, Median: d.Median, Std: d.Std, Min: d.Min, Max: d.Max,
			Q25: models.Finite(stats.Quantile(sorted, 0.25)),
			Q75: models.Finite(stats.Quantile(sorted, 0.75)),
		}
	}
	p.Bands = make([]Count, len(PriceBands))
	for i, b := range PriceBands {
		p.Bands[i].Key = b.Label
	}
	for _, v := range prices {
		for i, b := range PriceBands {
			if v >= b.Low && (b.High == 0 || v < b.High) {
				p.Bands[i].Count++
				break
			}
		}
	}
	if t.Has(models.ColCategory) {
		p.ByCategory = groupPrices(t.Rows, func(r models.ProductRecord) string { return r.Category })
	}
	return p
}

func suppliers(t *models.Table) *SupplierInsights {
	if !t.Has(models.ColSupplierName) {
		return nil
	}
	freq, _ := countBy(t, func(r models.ProductRecord) string { return r.SupplierName })
	s := &SupplierInsights{TotalSuppliers: len(freq)}
	if len(freq) > 0 {
		s.AvgProductsPerSupplier = stats.Round2(float64(t.Len()) / float64(len(freq)))
	}
	all := topCounts(freq, 0)
	for _, c := range all {
		if c.Count == 1 {
			s.SingleProductSuppliers++
		} else {
			s.MultiProductSuppliers++
		}
	}
	s.TopSuppliers = all
	if len(all) > topSupplierCount {
		s.TopSuppliers = all[:topSupplierCount]
	}
	top := 0
	for _, c := range s.TopSuppliers {
		top += c.Count
	}
	s.Top10SupplierSharePct = pct(top, t.Len())
	return s
}

func locations(t *models.Table) *LocationInsights {
	if !t.Has(models.ColLocation) && !t.Has(models.ColExtractedState) {
		return nil
	}
	l := &LocationInsights{}
	if t.Has(models.ColLocation) {
		freq, _ := countBy(t, func(r models.ProductRecord) string { return r.Location })
		l.TotalLocations = len(freq)
		l.TopLocations = topCounts(freq, topLocationCount)
	}
	if t.Has(models.ColExtractedState) {
		freq, total := countBy(t, func(r models.ProductRecord) string { return r.ExtractedState })
		l.TotalStates = len(freq)
		l.States = topCounts(freq, 0)
		l.StatePercentages = percentages(freq, total)
		if t.Has(models.ColNumericPrice) {
			l.PriceByState = groupPrices(t.Rows, func(r models.ProductRecord) string { return r.ExtractedState })
		}
	}
	return l
}

func text(t *models.Table) *TextInsights {
	if !t.Has(models.ColTitle) && !t.Has(models.ColDescription) {
		return nil
	}
	x := &TextInsights{}
	if t.Has(models.ColTitle) {
		var titles []string
		var lengths, words []float64
		for _, r := range t.Rows {
			if r.Title == "" {
				continue
			}
			titles = append(titles, r.Title)
			lengths = append(lengths, float64(utf8.RuneCountInString(r.Title)))
			words = append(words, float64(len(strings.Fields(r.Title))))
		}
		x.AvgTitleLength = round(stats.Describe(lengths).Mean)
		x.AvgTitleWords = round(stats.Describe(words).Mean)
		x.CommonTitleWords = TopWords(titles, topWordCount)
	}
	if t.Has(models.ColDescription) {
		var descs []string
		var lengths []float64
		for _, r := range t.Rows {
			if r.Description != "" {
				descs = append(descs, r.Description)
				lengths = append(lengths, float64(utf8.RuneCountInString(r.Description)))
			}
		}
		x.ProductsWithDescription = len(descs)
		x.AvgDescriptionLength = round(stats.Describe(lengths).Mean)
		if len(descs) > 0 {
			x.CommonDescriptionWords = TopWords(descs, topWordCount)
		}
	}
	return x
}

func quality(t *models.Table) QualityInsights {
	q := QualityInsights{}
	for _, col := range t.Columns {
		n := 0
		for i := range t.Rows {
			if t.Rows[i].Missing(col) {
				n++
			}
		}
		if n > 0 {
			q.ColumnsWithMissing++
		}
		q.TotalMissing += n
	}

	if t.Len() > 1 {
		seen := make(map[string]struct{}, t.Len())
		for _, r := range t.Rows {
			b, _ := json.Marshal(r)
			if _, dup := seen[string(b)]; dup {
				q.DuplicateRows++
				continue
			}
			seen[string(b)] = struct{}{}
		}
		q.DuplicatePct = pct(q.DuplicateRows, t.Len())
	}

	if !t.Has(models.ColNumericPrice) {
		return q
	}
	prices := presentPrices(t.Rows)
	if len(prices) == 0 {
		return q
	}
	sorted := stats.Sorted(prices)
	q1 := stats.Quantile(sorted, 0.25)
	q3 := stats.Quantile(sorted, 0.75)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr
	for _, v := range prices {
		switch {
		case v == 0:
			q.ZeroPrices++
		case v < 0:
			q.NegativePrices++
		}
		if v < lo || v > hi {
			q.OutlierPrices++
		}
	}
	q.OutlierPct = models.Float(pct(q.OutlierPrices, len(prices)))
	return q
}
