package fields

import (
	"strings"

	"b2b-market-scraper/internal/models"
)

// ParseLocation splits a listing location like "Andheri East, Mumbai" into
// city and state. City is the text before the first comma (the whole text
// when there is no comma); state comes from the region table.
func ParseLocation(text string) models.ExtractedLocation {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ExtractedLocation{}
	}

	city := text
	if i := strings.IndexByte(text, ','); i >= 0 {
		city = text[:i]
	}
	city = strings.TrimSpace(city)
	state := MatchState(text)

	normalized := text
	if city != "" && state != "" {
		normalized = city + ", " + state
	}
	return models.ExtractedLocation{
		RawText:    text,
		City:       city,
		State:      state,
		Normalized: normalized,
	}
}
