package cleaner

import (
	"slices"
	"unicode/utf8"

	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/internal/stats"
)

// Report summarises t without modifying it.
func Report(t *models.Table, duplicatesRemoved int) models.QualityReport {
	rep := models.QualityReport{
		TotalRecords:      t.Len(),
		Columns:           slices.Clone(t.Columns),
		MissingValues:     make(map[string]int, len(t.Columns)),
		DuplicatesRemoved: duplicatesRemoved,
	}
	for _, col := range t.Columns {
		n := 0
		for _, r := range t.Rows {
			if r.Missing(col) {
				n++
			}
		}
		rep.MissingValues[col] = n
	}

	if t.Has(models.ColTitle) {
		var lengths []float64
		for _, r := range t.Rows {
			if r.Title != "" {
				lengths = append(lengths, float64(utf8.RuneCountInString(r.Title)))
			}
		}
		rep.ProductsWithTitle = models.Int(len(lengths))
		if len(lengths) > 0 {
			s := stats.Describe(lengths)
			rep.TitleLength = &s
		}
	}

	if t.Has(models.ColNumericPrice) {
		var prices []float64
		for _, r := range t.Rows {
			if r.NumericPrice != nil {
				prices = append(prices, *r.NumericPrice)
			}
		}
		if len(prices) > 0 {
			s := stats.Describe(prices)
			rep.PriceStatistics = &s
		}
	}
	if t.Has(models.ColPriceOutlier) {
		n := 0
		for _, r := range t.Rows {
			if r.PriceOutlier {
				n++
			}
		}
		rep.PriceOutliers = models.Int(n)
	}

	if t.Has(models.ColSupplierName) {
		rep.UniqueSuppliers = models.Int(distinct(t.Rows, func(r models.ProductRecord) string { return r.SupplierName }))
	}
	if t.Has(models.ColLocation) {
		rep.UniqueLocations = models.Int(distinct(t.Rows, func(r models.ProductRecord) string { return r.Location }))
	}
	if t.Has(models.ColExtractedState) {
		rep.StatesDetected = models.Int(distinct(t.Rows, func(r models.ProductRecord) string { return r.ExtractedState }))
	}
	if t.Has(models.ColCategory) {
		rep.CategoryDistribution = make(map[string]int)
		for _, r := range t.Rows {
			if r.Category != "" {
				rep.CategoryDistribution[r.Category]++
			}
		}
	}
	return rep
}

func distinct(rows []models.ProductRecord, key func(models.ProductRecord) string) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if k := key(r); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}
