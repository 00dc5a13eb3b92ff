package fields

import (
	"regexp"
	"sort"
	"strings"
)

// unitSynonyms maps raw unit tokens to their standard label. Tokens that are
// not listed pass through unchanged.
var unitSynonyms = map[string]string{
	"pc": "piece", "pcs": "piece", "piece": "piece", "pieces": "piece", "unit": "piece",
	"kg": "kilogram", "kilogram": "kilogram",
	"gram": "gram", "gm": "gram",
	"ton": "ton", "tonne": "ton",
	"meter": "meter", "metre": "meter", "m": "meter",
	"feet": "feet", "foot": "feet", "ft": "feet",
	"inch": "inch",
	"litre": "liter", "liter": "liter", "l": "liter",
	"dozen": "dozen", "pair": "pair", "set": "set",
}

// StandardizeUnit lowercases u and maps it through the unit synonym table.
func StandardizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	if std, ok := unitSynonyms[u]; ok {
		return std
	}
	return u
}

// regionStates maps region names, abbreviations and major cities to a state.
var regionStates = map[string]string{
	"andhra pradesh": "Andhra Pradesh", "ap": "Andhra Pradesh", "visakhapatnam": "Andhra Pradesh",
	"arunachal pradesh": "Arunachal Pradesh",
	"assam": "Assam",
	"bihar": "Bihar",
	"chhattisgarh": "Chhattisgarh",
	"goa": "Goa",
	"gujarat": "Gujarat", "ahmedabad": "Gujarat", "surat": "Gujarat",
	"haryana": "Haryana",
	"himachal pradesh": "Himachal Pradesh", "hp": "Himachal Pradesh",
	"jammu and kashmir": "Jammu and Kashmir", "j&k": "Jammu and Kashmir",
	"jharkhand": "Jharkhand",
	"karnataka": "Karnataka", "bangalore": "Karnataka",
	"kerala": "Kerala",
	"madhya pradesh": "Madhya Pradesh", "mp": "Madhya Pradesh", "indore": "Madhya Pradesh", "bhopal": "Madhya Pradesh",
	"maharashtra": "Maharashtra", "mumbai": "Maharashtra", "pune": "Maharashtra", "nagpur": "Maharashtra", "thane": "Maharashtra",
	"manipur": "Manipur",
	"meghalaya": "Meghalaya",
	"mizoram": "Mizoram",
	"nagaland": "Nagaland",
	"odisha": "Odisha", "orissa": "Odisha",
	"punjab": "Punjab",
	"rajasthan": "Rajasthan", "jaipur": "Rajasthan",
	"sikkim": "Sikkim",
	"tamil nadu": "Tamil Nadu", "tn": "Tamil Nadu", "chennai": "Tamil Nadu",
	"telangana": "Telangana", "hyderabad": "Telangana",
	"tripura": "Tripura",
	"uttar pradesh": "Uttar Pradesh", "up": "Uttar Pradesh", "lucknow": "Uttar Pradesh", "kanpur": "Uttar Pradesh",
	"uttarakhand": "Uttarakhand",
	"west bengal": "West Bengal", "wb": "West Bengal", "kolkata": "West Bengal",
	"delhi": "Delhi", "new delhi": "Delhi",
}

type regionMatcher struct {
	key   string
	state string
	re    *regexp.Regexp
}

// regionMatchers holds regionStates ordered longest key first (ties broken
// alphabetically), each key anchored on word boundaries.
var regionMatchers = buildRegionMatchers(regionStates)

func buildRegionMatchers(table map[string]string) []regionMatcher {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) == len(keys[j]) {
			return keys[i] < keys[j]
		}
		return len(keys[i]) > len(keys[j])
	})
	out := make([]regionMatcher, 0, len(keys))
	for _, k := range keys {
		out = append(out, regionMatcher{
			key:   k,
			state: table[k],
			re:    regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`),
		})
	}
	return out
}

// MatchState returns the state named by text, or "" when no region key
// occurs in it as a whole word.
func MatchState(text string) string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return ""
	}
	for _, m := range regionMatchers {
		if m.re.MatchString(lower) {
			return m.state
		}
	}
	return ""
}

var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"of": {}, "with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "can": {}, "may": {}, "might": {}, "must": {}, "shall": {},
}

// IsStopWord reports whether w (lowercase) is in the keyword stop list.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
