package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"b2b-market-scraper/internal/fields"
)

// Probe reads one field out of a listing fragment. An empty result means the
// probe did not match.
type Probe func(*goquery.Selection) string

// SelectorText probes the text of the first element matching sel.
func SelectorText(sel string) Probe {
	return func(s *goquery.Selection) string {
		return fields.CleanText(s.Find(sel).First().Text())
	}
}

// SelectorAttr probes the first non-empty value among attrs on the first
// element matching sel.
func SelectorAttr(sel string, attrs ...string) Probe {
	return func(s *goquery.Selection) string {
		el := s.Find(sel).First()
		for _, a := range attrs {
			if v := strings.TrimSpace(el.AttrOr(a, "")); v != "" {
				return v
			}
		}
		return ""
	}
}

// TextProbes turns a list of selectors into SelectorText probes.
func TextProbes(selectors ...string) []Probe {
	out := make([]Probe, 0, len(selectors))
	for _, sel := range selectors {
		out = append(out, SelectorText(sel))
	}
	return out
}

// FirstMatch runs probes in order and returns the first non-empty result.
// A probe that panics counts as a miss.
func FirstMatch(s *goquery.Selection, probes []Probe) string {
	for _, p := range probes {
		if v := runProbe(p, s); v != "" {
			return v
		}
	}
	return ""
}

func runProbe(p Probe, s *goquery.Selection) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	return p(s)
}
