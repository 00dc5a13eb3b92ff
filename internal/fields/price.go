package fields

import (
	"regexp"
	"strconv"
	"strings"

	"b2b-market-scraper/internal/models"
)

// DefaultCurrency is the currency every listing on the marketplace is quoted in.
const DefaultCurrency = "INR"

const (
	currencySym = `(?:₹|rs\.?|inr)?`
	amount      = `(\d+(?:,\d+)*(?:\.\d+)?)`
)

var (
	rangePriceRe  = regexp.MustCompile(`(?i)` + currencySym + `\s*` + amount + `\s*(?:-|–|—|\bto\b)\s*` + currencySym + `\s*` + amount)
	singlePriceRe = regexp.MustCompile(`(?i)` + currencySym + `\s*` + amount)

	// tried in order; the trailing-word fallback only accepts letters so a
	// bare amount like "₹500" has no unit.
	unitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`per\s+(\w+)`),
		regexp.MustCompile(`/\s*(\w+)`),
		regexp.MustCompile(`([a-z]+)\s*$`),
	}
)

// ParsePrice parses a raw price string quoted in DefaultCurrency.
func ParsePrice(text string) models.ExtractedPrice {
	return ParsePriceIn(text, DefaultCurrency)
}

// ParsePriceIn parses a raw price string such as "₹1,200 - ₹1,800 per kg".
// Empty input yields an ExtractedPrice with every optional field absent.
func ParsePriceIn(text, currency string) models.ExtractedPrice {
	text = strings.TrimSpace(text)
	out := models.ExtractedPrice{RawText: text, Currency: currency}
	if text == "" {
		return out
	}
	out.Unit = ExtractUnit(text)

	if m := rangePriceRe.FindStringSubmatch(text); m != nil {
		lo, errLo := parseAmount(m[1])
		hi, errHi := parseAmount(m[2])
		if errLo == nil && errHi == nil {
			avg := (lo + hi) / 2
			out.MinValue = &lo
			out.MaxValue = &hi
			out.NumericValue = &avg
			out.IsRange = true
			return out
		}
	}

	if m := singlePriceRe.FindStringSubmatch(text); m != nil {
		if v, err := parseAmount(m[1]); err == nil {
			out.NumericValue = &v
		}
	}
	return out
}

// ExtractUnit finds the pricing unit in text ("per kg", "/piece", trailing
// word) and standardizes it. Returns "" when none is found.
func ExtractUnit(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return ""
	}
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return StandardizeUnit(m[1])
		}
	}
	return ""
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
