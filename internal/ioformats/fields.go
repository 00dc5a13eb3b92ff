package ioformats

import (
	"strconv"
	"strings"

	"b2b-market-scraper/internal/models"
)

// knownColumns is every column a record file may carry, in output order.
var knownColumns = append(append([]string{}, models.RecordColumns...),
	models.ColPriceOutlier, models.ColExtractedState, models.ColIsDuplicate)

func isKnown(col string) bool {
	for _, c := range knownColumns {
		if c == col {
			return true
		}
	}
	return false
}

// orderColumns keeps the known columns of present in canonical order.
func orderColumns(present map[string]bool) []string {
	var out []string
	for _, c := range knownColumns {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

func stringField(r *models.ProductRecord, col string) *string {
	switch col {
	case models.ColTitle:
		return &r.Title
	case models.ColSupplierName:
		return &r.SupplierName
	case models.ColLocation:
		return &r.Location
	case models.ColDescription:
		return &r.Description
	case models.ColRawPrice:
		return &r.RawPrice
	case models.ColCurrency:
		return &r.Currency
	case models.ColPriceUnit:
		return &r.PriceUnit
	case models.ColImageURL:
		return &r.ImageURL
	case models.ColProductURL:
		return &r.ProductURL
	case models.ColSourceURL:
		return &r.SourceURL
	case models.ColCategory:
		return &r.Category
	case models.ColMarketplace:
		return &r.Marketplace
	case models.ColExtractedState:
		return &r.ExtractedState
	}
	return nil
}

func boolField(r *models.ProductRecord, col string) *bool {
	switch col {
	case models.ColPriceOutlier:
		return &r.PriceOutlier
	case models.ColIsDuplicate:
		return &r.IsDuplicate
	}
	return nil
}

// value returns the JSON value of col: a string, a bool, or a *float64 that
// is nil when the price is absent.
func value(r *models.ProductRecord, col string) any {
	if col == models.ColNumericPrice {
		return r.NumericPrice
	}
	if p := stringField(r, col); p != nil {
		return *p
	}
	if p := boolField(r, col); p != nil {
		return *p
	}
	return nil
}

// cell renders col for CSV; absent values are empty cells.
func cell(r *models.ProductRecord, col string) string {
	switch v := value(r, col).(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	return ""
}

// parsePrice accepts finite numbers only; anything else is absent.
func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return models.Finite(v)
}

// set assigns a decoded value to col. Strings that spell a number are
// accepted for numericPrice and "true"/"1" for flags.
func set(r *models.ProductRecord, col string, v any) {
	if col == models.ColNumericPrice {
		switch x := v.(type) {
		case float64:
			r.NumericPrice = models.Finite(x)
		case string:
			r.NumericPrice = parsePrice(x)
		default:
			r.NumericPrice = nil
		}
		return
	}
	if p := stringField(r, col); p != nil {
		switch x := v.(type) {
		case string:
			*p = x
		case float64:
			*p = strconv.FormatFloat(x, 'f', -1, 64)
		}
		return
	}
	if p := boolField(r, col); p != nil {
		switch x := v.(type) {
		case bool:
			*p = x
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			*p = err == nil && b
		}
	}
}
