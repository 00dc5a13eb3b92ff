// Package cleaner runs the ordered cleaning stages over a batch of product
// rows and summarises the result in a quality report.
package cleaner

import (
	"errors"
	"math"
	"strings"

	"b2b-market-scraper/internal/fields"
	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/internal/stats"
	"b2b-market-scraper/pkg/logger"
)

// ErrEmptyDataset is returned when there is nothing to clean.
var ErrEmptyDataset = errors.New("cleaner: dataset is empty")

// Options bounds the outlier band as quantiles of the present prices.
type Options struct {
	OutlierLow  float64
	OutlierHigh float64
}

func DefaultOptions() Options {
	return Options{OutlierLow: 0.01, OutlierHigh: 0.99}
}

type Cleaner struct {
	opts Options
	log  *logger.Logger
}

func New(opts Options, log *logger.Logger) *Cleaner {
	if opts.OutlierHigh <= opts.OutlierLow {
		opts = DefaultOptions()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Cleaner{opts: opts, log: log}
}

// Clean mutates t through every stage in order and returns it together with
// the quality report. Stages whose column is absent are skipped.
func (c *Cleaner) Clean(t *models.Table) (*models.Table, models.QualityReport, error) {
	if t == nil || t.Len() == 0 {
		return t, models.QualityReport{}, ErrEmptyDataset
	}
	c.log.Infof("cleaning %d records", t.Len())

	NormalizeText(t)
	StandardizePrices(t, c.opts)
	StandardizeLocations(t)
	removed := RemoveDuplicates(t)
	c.log.Infof("removed %d duplicates, remaining %d", removed, t.Len())

	return t, Report(t, removed), nil
}

// textColumns are normalised in place; the literal placeholders left by
// upstream exports count as absent.
var textColumns = []string{models.ColTitle, models.ColSupplierName, models.ColLocation, models.ColDescription}

func normalizeValue(s string) string {
	s = fields.CleanText(s)
	switch s {
	case "nan", "None":
		return ""
	}
	return s
}

func NormalizeText(t *models.Table) {
	for _, col := range textColumns {
		if !t.Has(col) {
			continue
		}
		for i := range t.Rows {
			if p := textField(&t.Rows[i], col); p != nil {
				*p = normalizeValue(*p)
			}
		}
	}
}

func textField(r *models.ProductRecord, col string) *string {
	switch col {
	case models.ColTitle:
		return &r.Title
	case models.ColSupplierName:
		return &r.SupplierName
	case models.ColLocation:
		return &r.Location
	case models.ColDescription:
		return &r.Description
	}
	return nil
}

// StandardizePrices drops non-finite prices, flags values outside the
// [low, high] quantile band and maps units through the synonym table.
func StandardizePrices(t *models.Table, opts Options) {
	if t.Has(models.ColNumericPrice) {
		var present []float64
		for i := range t.Rows {
			p := t.Rows[i].NumericPrice
			if p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
				t.Rows[i].NumericPrice = nil
				continue
			}
			if p != nil {
				present = append(present, *p)
			}
		}
		sorted := stats.Sorted(present)
		lo := stats.Quantile(sorted, opts.OutlierLow)
		hi := stats.Quantile(sorted, opts.OutlierHigh)
		for i := range t.Rows {
			p := t.Rows[i].NumericPrice
			t.Rows[i].PriceOutlier = p != nil && (*p < lo || *p > hi)
		}
		t.AddColumn(models.ColPriceOutlier)
	}

	if t.Has(models.ColPriceUnit) {
		for i := range t.Rows {
			if u := t.Rows[i].PriceUnit; u != "" {
				t.Rows[i].PriceUnit = fields.StandardizeUnit(u)
			}
		}
	}
}

func StandardizeLocations(t *models.Table) {
	if !t.Has(models.ColLocation) {
		return
	}
	for i := range t.Rows {
		t.Rows[i].ExtractedState = fields.MatchState(t.Rows[i].Location)
	}
	t.AddColumn(models.ColExtractedState)
}

// DedupKey is lower(title) + "_" + lower(supplier).
func DedupKey(r models.ProductRecord) string {
	return strings.ToLower(r.Title) + "_" + strings.ToLower(r.SupplierName)
}

// RemoveDuplicates keeps the first row of every key and returns how many rows
// were dropped. A table with neither title nor supplier is left alone.
func RemoveDuplicates(t *models.Table) int {
	if !t.Has(models.ColTitle) && !t.Has(models.ColSupplierName) {
		return 0
	}
	seen := make(map[string]struct{}, t.Len())
	kept := t.Rows[:0]
	for _, r := range t.Rows {
		k := DedupKey(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, r)
	}
	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}
