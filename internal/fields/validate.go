package fields

import (
	"fmt"
	"strings"

	"b2b-market-scraper/internal/models"
)

// ValidateRecords checks a freshly scraped batch before it is persisted.
// Missing title or supplier is an error per record; a batch with more than
// 10% empty titles or 5% non-positive prices gets a warning.
func ValidateRecords(records []models.ProductRecord) models.Validation {
	if len(records) == 0 {
		return models.Validation{Valid: false, Errors: []string{"no data provided"}}
	}

	var errs, warns []string
	for i, r := range records {
		if r.Title == "" {
			errs = append(errs, fmt.Sprintf("record %d: missing required field %q", i, models.ColTitle))
		}
		if r.SupplierName == "" {
			errs = append(errs, fmt.Sprintf("record %d: missing required field %q", i, models.ColSupplierName))
		}
	}

	titlesEmpty, pricesInvalid := 0, 0
	suppliers := map[string]struct{}{}
	for _, r := range records {
		if strings.TrimSpace(r.Title) == "" {
			titlesEmpty++
		}
		if r.NumericPrice != nil && *r.NumericPrice <= 0 {
			pricesInvalid++
		}
		suppliers[r.SupplierName] = struct{}{}
	}

	n := float64(len(records))
	if float64(titlesEmpty) > n*0.1 {
		warns = append(warns, fmt.Sprintf("high number of empty titles: %d", titlesEmpty))
	}
	if float64(pricesInvalid) > n*0.05 {
		warns = append(warns, fmt.Sprintf("high number of invalid prices: %d", pricesInvalid))
	}

	score := max(0, 100-len(errs)*10-len(warns)*2)
	return models.Validation{
		Valid:        len(errs) == 0,
		TotalRecords: len(records),
		Errors:       errs,
		Warnings:     warns,
		QualityScore: score,
		Summary: models.ValidationSummary{
			TitlesEmpty:     titlesEmpty,
			PricesInvalid:   pricesInvalid,
			UniqueSuppliers: len(suppliers),
		},
	}
}
