// Package dedup flags near-duplicate listings within each supplier's rows.
//
// Every pair inside a supplier partition is compared, so the cost is
// quadratic in the largest partition. Callers with very large single-supplier
// batches should pre-filter (for example by price bucket).
package dedup

import (
	"fmt"
	"math"
	"strings"

	"github.com/antzucaro/matchr"

	"b2b-market-scraper/internal/fields"
	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/pkg/logger"
)

const (
	DefaultThreshold = 0.7

	titleWeight = 0.8
	priceWeight = 0.2
)

// Scorer compares two titles and returns a similarity in [0,1].
type Scorer func(a, b string) float64

// Jaccard is the default title scorer.
func Jaccard(a, b string) float64 { return fields.JaccardSimilarity(a, b) }

// JaroWinkler scores the lowercased titles character by character; it is
// kinder to typos than word-set overlap.
func JaroWinkler(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return matchr.JaroWinkler(strings.ToLower(a), strings.ToLower(b), false)
}

// ScorerByName resolves "jaccard" (or "") and "jarowinkler".
func ScorerByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "jaccard":
		return Jaccard, nil
	case "jarowinkler", "jaro-winkler":
		return JaroWinkler, nil
	}
	return nil, fmt.Errorf("dedup: unknown similarity scorer %q", name)
}

type Options struct {
	Threshold float64
	Scorer    Scorer
	Logger    *logger.Logger
}

// PriceSimilarity is 1 - |a-b|/mean(a,b) floored at 0, or 0 unless both
// prices are present and positive.
func PriceSimilarity(a, b *float64) float64 {
	if a == nil || b == nil || *a <= 0 || *b <= 0 {
		return 0
	}
	mean := (*a + *b) / 2
	return math.Max(0, 1-math.Abs(*a-*b)/mean)
}

// Score combines title and price similarity of two records.
func Score(scorer Scorer, x, y models.ProductRecord) float64 {
	return titleWeight*scorer(x.Title, y.Title) + priceWeight*PriceSimilarity(x.NumericPrice, y.NumericPrice)
}

// Flag sets IsDuplicate on every row that scores at or above the threshold
// against an earlier unflagged row from the same supplier, and adds the
// isDuplicate column. Rows without a supplier are never compared. Returns the
// number of rows flagged.
func Flag(t *models.Table, opts Options) int {
	if opts.Scorer == nil {
		opts.Scorer = Jaccard
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	for i := range t.Rows {
		t.Rows[i].IsDuplicate = false
	}
	t.AddColumn(models.ColIsDuplicate)
	if !t.Has(models.ColSupplierName) || !t.Has(models.ColTitle) {
		return 0
	}

	partitions := make(map[string][]int)
	var order []string
	for i, r := range t.Rows {
		if r.SupplierName == "" {
			continue
		}
		if _, ok := partitions[r.SupplierName]; !ok {
			order = append(order, r.SupplierName)
		}
		partitions[r.SupplierName] = append(partitions[r.SupplierName], i)
	}

	flagged := 0
	for _, supplier := range order {
		idx := partitions[supplier]
		for a := 0; a < len(idx); a++ {
			for b := a + 1; b < len(idx); b++ {
				i, j := idx[a], idx[b]
				if t.Rows[i].IsDuplicate || t.Rows[j].IsDuplicate {
					continue
				}
				if Score(opts.Scorer, t.Rows[i], t.Rows[j]) >= opts.Threshold {
					t.Rows[j].IsDuplicate = true
					flagged++
				}
			}
		}
	}
	opts.Logger.Infof("flagged %d near-duplicates across %d suppliers", flagged, len(order))
	return flagged
}
